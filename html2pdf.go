package autoformat

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-autoformat/internal/fileutil"
	"github.com/alnah/go-autoformat/internal/process"
)

// renderSurface is a scoped rendering target: one browser page bound to one
// temporary HTML file. Release must be called on every exit path.
type renderSurface interface {
	Load(ctx context.Context, htmlContent string) error
	PDF(ctx context.Context, opts *renderOptions) ([]byte, error)
	Screenshot(ctx context.Context, opts *renderOptions) ([]byte, error)
	Release() error
}

// surfaceProvider creates rendering surfaces.
type surfaceProvider interface {
	Acquire(ctx context.Context) (renderSurface, error)
	Close() error
}

// Compile-time interface checks
var (
	_ surfaceProvider = (*rodProvider)(nil)
	_ renderSurface   = (*rodSurface)(nil)
)

// renderOptions holds page and raster options for one render.
type renderOptions struct {
	Page         *PageSettings
	ImageQuality int
	Scale        float64
}

// cssPixelsPerInch is the CSS reference resolution.
const cssPixelsPerInch = 96

// viewportWidthPx is the CSS width used for screenshots.
const viewportWidthPx = 816 // 8.5in at 96 DPI

// rodProvider implements surfaceProvider with one lazily launched headless
// Chrome shared by all surfaces. Rod downloads Chromium on first run if none
// is found.
type rodProvider struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
}

// newRodProvider creates a rodProvider with the given page load timeout.
func newRodProvider(timeout time.Duration) *rodProvider {
	return &rodProvider{timeout: timeout}
}

// ensureBrowser lazily connects to the browser. Caller holds p.mu.
func (p *rodProvider) ensureBrowser() error {
	if p.browser != nil {
		return nil
	}

	// Configure launcher
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	p.browser = browser
	p.launcher = l
	return nil
}

// Acquire opens a blank page on the shared browser.
func (p *rodProvider) Acquire(ctx context.Context) (renderSurface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if err := p.ensureBrowser(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	browser := p.browser
	p.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return &rodSurface{page: page, timeout: p.timeout}, nil
}

// Close releases browser resources. The browser's process group is killed
// so no renderer helpers outlive the provider.
func (p *rodProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser == nil {
		return nil
	}
	err := p.browser.Close()
	p.browser = nil

	if p.launcher != nil {
		if pid := p.launcher.PID(); pid > 0 {
			// Best-effort; the browser may already have exited.
			_ = process.KillProcessGroup(pid)
		}
		p.launcher.Cleanup()
		p.launcher = nil
	}
	return err
}

// rodSurface is a browser page plus the temp file it renders.
type rodSurface struct {
	page    *rod.Page
	timeout time.Duration
	cleanup func()
}

// Load writes htmlContent to a temp file and navigates the page to it.
func (s *rodSurface) Load(ctx context.Context, htmlContent string) error {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	s.cleanup = cleanup

	timeout, err := s.loadTimeout(ctx)
	if err != nil {
		return err
	}

	page := s.page.Context(ctx).Timeout(timeout)
	if err := page.Navigate("file://" + tmpPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return ctx.Err()
}

// loadTimeout returns the remaining context budget, or the provider timeout
// when ctx has no deadline.
func (s *rodSurface) loadTimeout(ctx context.Context) (time.Duration, error) {
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}
	return timeout, nil
}

// PDF prints the loaded page. Content Chrome rasterizes while printing
// (canvas, filters, scaled images) uses the configured device scale factor.
func (s *rodSurface) PDF(ctx context.Context, opts *renderOptions) ([]byte, error) {
	page := s.page.Context(ctx)
	if err := page.SetViewport(pdfDeviceMetrics(opts)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// Screenshot captures the full loaded page as JPEG at the configured
// device scale factor.
func (s *rodSurface) Screenshot(ctx context.Context, opts *renderOptions) ([]byte, error) {
	page := s.page.Context(ctx)
	if err := page.SetViewport(screenshotDeviceMetrics(opts)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCapture, err)
	}

	quality := opts.quality()
	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCapture, err)
	}
	return data, nil
}

// Release closes the page and removes the temp file.
func (s *rodSurface) Release() error {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	if s.page == nil {
		return nil
	}
	err := s.page.Close()
	s.page = nil
	return err
}

// buildPDFOptions constructs proto.PagePrintToPDF from page settings.
func buildPDFOptions(opts *renderOptions) *proto.PagePrintToPDF {
	page := DefaultPageSettings()
	if opts != nil && opts.Page != nil {
		page = opts.Page
	}
	width, height := page.dimensions()
	margin := page.Margin

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}
}

// pdfDeviceMetrics sizes the viewport to the printable page width at the
// configured device scale factor.
func pdfDeviceMetrics(opts *renderOptions) *proto.EmulationSetDeviceMetricsOverride {
	page := DefaultPageSettings()
	if opts != nil && opts.Page != nil {
		page = opts.Page
	}
	width, height := page.dimensions()
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             int(width * cssPixelsPerInch),
		Height:            int(height * cssPixelsPerInch),
		DeviceScaleFactor: opts.scale(),
	}
}

// screenshotDeviceMetrics returns the fixed-width screenshot viewport.
func screenshotDeviceMetrics(opts *renderOptions) *proto.EmulationSetDeviceMetricsOverride {
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidthPx,
		Height:            viewportWidthPx,
		DeviceScaleFactor: opts.scale(),
	}
}

func (o *renderOptions) quality() int {
	if o == nil || o.ImageQuality <= 0 || o.ImageQuality > 100 {
		return DefaultImageQuality
	}
	return o.ImageQuality
}

func (o *renderOptions) scale() float64 {
	if o == nil || o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
