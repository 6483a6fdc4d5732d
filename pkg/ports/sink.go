package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving captured frames and timeline dumps for diagnostics.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRawFrame saves one captured frame.
	SaveRawFrame(index int, img image.Image) error

	// SaveTimelineJSON saves the finished timeline as JSON.
	SaveTimelineJSON(data []byte) error

	// SaveTimelineCSV saves the finished timeline as CSV.
	SaveTimelineCSV(data []byte) error

	// SaveSummary saves the run summary text.
	SaveSummary(data []byte) error
}
