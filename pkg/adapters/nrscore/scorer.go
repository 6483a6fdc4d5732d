// Package nrscore computes no-reference image-quality scores.
package nrscore

import (
	"fmt"
	"image"
	"math"

	"github.com/user/framescore/pkg/ports"
)

// Scorer implements ports.Scorer with pure Go metric kernels. All metrics
// are deterministic functions of the pixel data.
type Scorer struct{}

// New creates a new Scorer.
func New() *Scorer {
	return &Scorer{}
}

// minKernelSize is the smallest image edge the 3x3 kernels can handle.
const minKernelSize = 3

// Score computes the score for one metric kind on one frame.
func (s *Scorer) Score(img image.Image, kind ports.MetricKind) (float64, error) {
	if img == nil {
		return 0, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() < minKernelSize || bounds.Dy() < minKernelSize {
		return 0, fmt.Errorf("image %dx%d is smaller than %dx%d", bounds.Dx(), bounds.Dy(), minKernelSize, minKernelSize)
	}

	switch kind {
	case ports.MetricSharpness:
		return laplacianVariance(lumaPlane(img)), nil
	case ports.MetricContrast:
		return rmsContrast(lumaPlane(img)), nil
	case ports.MetricBrightness:
		return meanBrightness(lumaPlane(img)), nil
	case ports.MetricNoise:
		return noiseEstimate(lumaPlane(img)), nil
	case ports.MetricColorfulness:
		return colorfulness(img), nil
	default:
		return 0, fmt.Errorf("unknown metric kind %q", string(kind))
	}
}

// plane is a float64 luma raster.
type plane struct {
	pix  []float64
	w, h int
}

func (p plane) at(x, y int) float64 {
	return p.pix[y*p.w+x]
}

// lumaPlane converts an image to a BT.601 luma raster in [0, 255].
func lumaPlane(img image.Image) plane {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	p := plane{pix: make([]float64, w*h), w: w, h: h}

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			row := rgba.Pix[(y+bounds.Min.Y-rgba.Rect.Min.Y)*rgba.Stride:]
			for x := 0; x < w; x++ {
				o := (x + bounds.Min.X - rgba.Rect.Min.X) * 4
				r, g, b := float64(row[o]), float64(row[o+1]), float64(row[o+2])
				p.pix[y*w+x] = 0.299*r + 0.587*g + 0.114*b
			}
		}
		return p
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			p.pix[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}
	return p
}

// laplacianVariance measures sharpness as the variance of the 3x3
// Laplacian response over interior pixels. Blurry frames score near zero.
func laplacianVariance(p plane) float64 {
	n := 0
	mean := 0.0
	m2 := 0.0
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			v := p.at(x-1, y) + p.at(x+1, y) + p.at(x, y-1) + p.at(x, y+1) - 4*p.at(x, y)
			n++
			delta := v - mean
			mean += delta / float64(n)
			m2 += delta * (v - mean)
		}
	}
	if n < 2 {
		return 0
	}
	return m2 / float64(n)
}

// rmsContrast is the standard deviation of luma, normalized to [0, 1].
func rmsContrast(p plane) float64 {
	mean := 0.0
	for _, v := range p.pix {
		mean += v
	}
	mean /= float64(len(p.pix))

	variance := 0.0
	for _, v := range p.pix {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(p.pix))
	return math.Sqrt(variance) / 255.0
}

// meanBrightness is the mean luma, normalized to [0, 1].
func meanBrightness(p plane) float64 {
	sum := 0.0
	for _, v := range p.pix {
		sum += v
	}
	return sum / float64(len(p.pix)) / 255.0
}

// noiseEstimate measures high-frequency residual energy: the mean absolute
// difference between each interior pixel and its 3x3 neighborhood mean,
// normalized to [0, 1]. Smooth frames score near zero.
func noiseEstimate(p plane) float64 {
	n := 0
	sum := 0.0
	for y := 1; y < p.h-1; y++ {
		for x := 1; x < p.w-1; x++ {
			neighborhood := 0.0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					neighborhood += p.at(x+dx, y+dy)
				}
			}
			neighborhood /= 9.0
			sum += math.Abs(p.at(x, y) - neighborhood)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n) / 255.0
}

// colorfulness is the Hasler-Suesstrunk measure over the rg and yb
// opponent channels, normalized to [0, 1].
func colorfulness(img image.Image) float64 {
	bounds := img.Bounds()
	n := 0
	var rgMean, rgM2, ybMean, ybM2 float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r, g, b := float64(r16)/257.0, float64(g16)/257.0, float64(b16)/257.0

			rg := r - g
			yb := 0.5*(r+g) - b

			n++
			d := rg - rgMean
			rgMean += d / float64(n)
			rgM2 += d * (rg - rgMean)

			d = yb - ybMean
			ybMean += d / float64(n)
			ybM2 += d * (yb - ybMean)
		}
	}
	if n < 2 {
		return 0
	}
	stddev := math.Sqrt(rgM2/float64(n) + ybM2/float64(n))
	meanMag := math.Sqrt(rgMean*rgMean + ybMean*ybMean)
	return (stddev + 0.3*meanMag) / 255.0
}

// Ensure Scorer implements ports.Scorer
var _ ports.Scorer = (*Scorer)(nil)
