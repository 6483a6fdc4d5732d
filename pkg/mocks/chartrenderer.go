package mocks

import (
	"image"

	"github.com/user/framescore/pkg/ports"
)

// ChartRenderer is a mock implementation of ports.ChartRenderer.
// It records the last input passed to Render.
type ChartRenderer struct {
	RenderFunc    func(input ports.ChartInput) (image.Image, error)
	EncodePNGFunc func(img image.Image) ([]byte, error)

	LastInput   *ports.ChartInput
	RenderCalls int
}

func (m *ChartRenderer) Render(input ports.ChartInput) (image.Image, error) {
	m.LastInput = &input
	m.RenderCalls++
	if m.RenderFunc != nil {
		return m.RenderFunc(input)
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (m *ChartRenderer) EncodePNG(img image.Image) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// Ensure ChartRenderer implements ports.ChartRenderer
var _ ports.ChartRenderer = (*ChartRenderer)(nil)
