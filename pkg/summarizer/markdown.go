package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a markdown document.
type MarkdownFormatter struct {
	version string
}

// Option configures a MarkdownFormatter.
type Option func(*MarkdownFormatter)

// WithVersion includes the tool version in the header.
func WithVersion(version string) Option {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	f := &MarkdownFormatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format converts a Summary to markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var b strings.Builder

	if f.version != "" {
		fmt.Fprintf(&b, "# Capture summary (framescore %s)\n\n", f.version)
	} else {
		b.WriteString("# Capture summary\n\n")
	}
	fmt.Fprintf(&b, "Generated at %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Target\n\n")
	fmt.Fprintf(&b, "- Source: %s\n", summary.Target.SourceKind)
	if summary.Target.Descriptor != "" {
		fmt.Fprintf(&b, "- Match: %s\n", summary.Target.Descriptor)
	}
	b.WriteString("\n")

	b.WriteString("## Capture\n\n")
	fmt.Fprintf(&b, "- Requested rate: %g fps\n", summary.Capture.RequestedRate)
	fmt.Fprintf(&b, "- Effective rate: %.2f fps\n", summary.Capture.EffectiveRate())
	fmt.Fprintf(&b, "- Duration: %s\n", summary.Capture.Duration)
	fmt.Fprintf(&b, "- Frames: %d of %d ticks", summary.Capture.Frames, summary.Capture.Ticks)
	if summary.Capture.FailedTicks > 0 {
		fmt.Fprintf(&b, " (%d failed)", summary.Capture.FailedTicks)
	}
	b.WriteString("\n\n")

	b.WriteString("## Scoring\n\n")
	fmt.Fprintf(&b, "- Scored: %d\n", summary.Scoring.Scored)
	fmt.Fprintf(&b, "- Dropped: %d\n\n", summary.Scoring.Dropped)

	if len(summary.Metrics) > 0 {
		b.WriteString("## Metrics\n\n")
		b.WriteString("| Metric | Min | Mean | Max |\n")
		b.WriteString("|--------|-----|------|-----|\n")
		for _, m := range summary.Metrics {
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f |\n", string(m.Kind), m.Min, m.Mean, m.Max)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Artifact\n\n")
	fmt.Fprintf(&b, "- Path: %s\n", summary.Artifact.Path)
	fmt.Fprintf(&b, "- Size: %d bytes\n", summary.Artifact.SizeBytes)
	fmt.Fprintf(&b, "- Timeline entries: %d\n", summary.Artifact.Entries)

	return b.String()
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
