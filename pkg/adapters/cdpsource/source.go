// Package cdpsource captures frames from a browser-hosted video call via
// the Chrome DevTools Protocol. It can attach to an already running
// browser (the usual case: the operator has the call open) or launch a
// fresh one and open the call URL itself.
package cdpsource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/framescore/pkg/ports"
)

// Options configures the CDP frame source.
type Options struct {
	// AttachURL is the DevTools endpoint of a running browser
	// (e.g. ws://127.0.0.1:9222). When set, the source attaches instead
	// of launching.
	AttachURL string

	// TargetTitle is a substring matched against tab titles when
	// resolving the capture target.
	TargetTitle string

	// TargetURL is a substring matched against tab URLs. Either
	// TargetTitle or TargetURL must match for a tab to qualify.
	TargetURL string

	// PageURL is opened after launching a fresh browser. Ignored when
	// attaching.
	PageURL string

	// ChromePath overrides the browser executable for launch mode.
	ChromePath string

	// Headless runs a launched browser without a visible window.
	Headless bool
}

// Source implements ports.FrameSource over chromedp.
type Source struct {
	opts Options

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// New creates a new Source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// ResolveTarget locates the call tab and prepares it for capture. In
// attach mode the running browser's tabs are enumerated and matched by
// title/URL substring; no match is ErrTargetNotFound. In launch mode the
// browser is started, PageURL opened, and the title verified the same
// way when TargetTitle is set.
func (s *Source) ResolveTarget(ctx context.Context) (ports.TargetHandle, error) {
	if s.opts.AttachURL != "" {
		return s.attach(ctx)
	}
	return s.launch(ctx)
}

func (s *Source) attach(ctx context.Context) (ports.TargetHandle, error) {
	s.allocCtx, s.allocCancel = chromedp.NewRemoteAllocator(ctx, s.opts.AttachURL)
	browserCtx, browserCancel := chromedp.NewContext(s.allocCtx)

	infos, err := chromedp.Targets(browserCtx)
	if err != nil {
		browserCancel()
		return "", fmt.Errorf("list targets: %w", err)
	}

	for _, info := range infos {
		if info.Type != "page" {
			continue
		}
		if !s.matches(info.Title, info.URL) {
			continue
		}
		s.tabCtx, s.tabCancel = chromedp.NewContext(browserCtx, chromedp.WithTargetID(info.TargetID))
		return ports.TargetHandle(info.TargetID), nil
	}

	browserCancel()
	return "", fmt.Errorf("no tab matching title %q or url %q: %w", s.opts.TargetTitle, s.opts.TargetURL, ports.ErrTargetNotFound)
}

func (s *Source) launch(ctx context.Context) (ports.TargetHandle, error) {
	if s.opts.PageURL == "" {
		return "", fmt.Errorf("launch mode requires a page URL")
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("use-fake-ui-for-media-stream", true),
	}
	if s.opts.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	if s.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.opts.ChromePath))
	}

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.allocCtx)

	if err := chromedp.Run(s.tabCtx, chromedp.Navigate(s.opts.PageURL)); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}

	if s.opts.TargetTitle != "" {
		var title string
		if err := chromedp.Run(s.tabCtx, chromedp.Title(&title)); err != nil {
			return "", fmt.Errorf("read title: %w", err)
		}
		if !strings.Contains(title, s.opts.TargetTitle) {
			return "", fmt.Errorf("page title %q does not contain %q: %w", title, s.opts.TargetTitle, ports.ErrTargetNotFound)
		}
	}

	return ports.TargetHandle("launched-page"), nil
}

func (s *Source) matches(title, url string) bool {
	if s.opts.TargetTitle != "" && strings.Contains(title, s.opts.TargetTitle) {
		return true
	}
	if s.opts.TargetURL != "" && strings.Contains(url, s.opts.TargetURL) {
		return true
	}
	return false
}

// Capture takes one screenshot of the resolved tab and decodes it.
func (s *Source) Capture(ctx context.Context, handle ports.TargetHandle) (image.Image, error) {
	if s.tabCtx == nil {
		return nil, fmt.Errorf("target %q not resolved", handle)
	}

	var data []byte
	err := chromedp.Run(s.tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return img, nil
}

// Close releases the browser contexts.
func (s *Source) Close() error {
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
