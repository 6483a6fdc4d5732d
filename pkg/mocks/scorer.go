package mocks

import (
	"image"

	"github.com/user/framescore/pkg/ports"
)

// Scorer is a mock implementation of ports.Scorer.
type Scorer struct {
	ScoreFunc func(img image.Image, kind ports.MetricKind) (float64, error)
}

func (m *Scorer) Score(img image.Image, kind ports.MetricKind) (float64, error) {
	if m.ScoreFunc != nil {
		return m.ScoreFunc(img, kind)
	}
	return 0.5, nil
}

// Ensure Scorer implements ports.Scorer
var _ ports.Scorer = (*Scorer)(nil)
