package ports

import (
	"fmt"
	"image"
	"sort"
)

// MetricKind names one no-reference image-quality measure.
type MetricKind string

const (
	// MetricSharpness is the variance of the Laplacian response. Higher
	// means more fine detail; blurry or frozen video scores low.
	MetricSharpness MetricKind = "sharpness"
	// MetricContrast is the RMS contrast of the luma plane.
	MetricContrast MetricKind = "contrast"
	// MetricBrightness is the mean luma, normalized to [0, 1].
	MetricBrightness MetricKind = "brightness"
	// MetricNoise estimates high-frequency residual energy after smoothing.
	MetricNoise MetricKind = "noise"
	// MetricColorfulness is the Hasler-Suesstrunk colorfulness measure.
	MetricColorfulness MetricKind = "colorfulness"
)

// AllMetricKinds returns every known metric kind in sorted order.
func AllMetricKinds() []MetricKind {
	kinds := []MetricKind{
		MetricBrightness,
		MetricColorfulness,
		MetricContrast,
		MetricNoise,
		MetricSharpness,
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseMetricKind validates a metric name from configuration.
func ParseMetricKind(s string) (MetricKind, error) {
	for _, k := range AllMetricKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown metric kind %q", s)
}

// Scorer computes no-reference quality scores for captured frames.
// Implementations must be deterministic: the same image and kind always
// yield the same score.
type Scorer interface {
	// Score computes the score for one metric kind on one frame.
	Score(img image.Image, kind MetricKind) (float64, error)
}
