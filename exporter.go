package autoformat

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/alnah/go-autoformat/internal/assets"
	"github.com/alnah/go-autoformat/internal/logger"
	"github.com/alnah/go-autoformat/internal/markup"
)

// DefaultDocumentTitle is printed when a PDF, image or Markdown export has
// no title.
const DefaultDocumentTitle = "Document"

// defaultExportTimeout is used when no timeout is specified.
const defaultExportTimeout = 30 * time.Second

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout      time.Duration
	styleName    string
	extraCSS     string
	assetPath    string
	page         *PageSettings
	imageQuality int
	scale        float64
	workers      int
	defaultName  string
}

// WithExportTimeout sets the per-export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithExportTimeout(d time.Duration) ExporterOption {
	if d <= 0 {
		panic("autoformat: WithExportTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithStyle selects a named style sheet from the asset loader.
func WithStyle(name string) ExporterOption {
	return func(e *Exporter) {
		e.cfg.styleName = name
	}
}

// WithCSS appends CSS after the style sheet.
func WithCSS(css string) ExporterOption {
	return func(e *Exporter) {
		e.cfg.extraCSS = css
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(path string) ExporterOption {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

// WithPage sets page size, orientation and margin.
func WithPage(p *PageSettings) ExporterOption {
	return func(e *Exporter) {
		e.cfg.page = p
	}
}

// WithImageQuality sets the JPEG quality (1-100).
func WithImageQuality(q int) ExporterOption {
	return func(e *Exporter) {
		e.cfg.imageQuality = q
	}
}

// WithScale sets the device scale factor for image exports.
func WithScale(f float64) ExporterOption {
	return func(e *Exporter) {
		e.cfg.scale = f
	}
}

// WithWorkers bounds concurrent rendering surfaces. Zero means automatic.
func WithWorkers(n int) ExporterOption {
	return func(e *Exporter) {
		e.cfg.workers = n
	}
}

// WithDefaultName sets the file name used when no custom filename or title
// is given.
func WithDefaultName(name string) ExporterOption {
	return func(e *Exporter) {
		e.cfg.defaultName = name
	}
}

// WithExportLogger sets the exporter logger.
func WithExportLogger(l *logger.Logger) ExporterOption {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithExportNotifier sets the receiver of export notices.
func WithExportNotifier(n Notifier) ExporterOption {
	return func(e *Exporter) {
		if n != nil {
			e.notifier = n
		}
	}
}

// withSurfaceProvider replaces the browser backend (tests).
func withSurfaceProvider(p surfaceProvider) ExporterOption {
	return func(e *Exporter) {
		e.provider = p
	}
}

// Exporter turns a document into PDF, JPEG, TXT or Markdown bytes.
// Create with NewExporter and Close when done. Safe for concurrent use.
type Exporter struct {
	cfg         exporterConfig
	log         *logger.Logger
	notifier    Notifier
	assetLoader assets.AssetLoader
	docTemplate *template.Template
	css         string
	mdWriter    *markup.MarkdownWriter
	provider    surfaceProvider
	pool        *surfacePool
}

// NewExporter creates an Exporter. The browser is only launched by the first
// PDF or JPEG export.
func NewExporter(opts ...ExporterOption) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:      defaultExportTimeout,
			styleName:    assets.DefaultStyleName,
			page:         DefaultPageSettings(),
			imageQuality: DefaultImageQuality,
			scale:        DefaultScale,
			defaultName:  DefaultExportName,
		},
		log:         logger.Nop(),
		notifier:    nopNotifier{},
		assetLoader: assets.NewEmbeddedLoader(),
		mdWriter:    markup.NewMarkdownWriter(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.validate(); err != nil {
		return nil, err
	}

	if e.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(e.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		e.assetLoader = resolver
		e.log.Debug("asset overrides enabled", "path", e.cfg.assetPath, "custom", resolver.HasCustomLoader())
	}

	style, err := e.assetLoader.LoadStyle(e.cfg.styleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrStyleNotFound, e.cfg.styleName, err)
	}
	e.css = style
	if e.cfg.extraCSS != "" {
		e.css += "\n" + e.cfg.extraCSS
	}

	tmpl, err := e.assetLoader.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading document template: %w", err)
	}
	e.docTemplate, err = template.New(assets.DocumentTemplateName).Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}

	if e.provider == nil {
		e.provider = newRodProvider(e.cfg.timeout)
	}
	e.pool = newSurfacePool(e.provider, ResolvePoolSize(e.cfg.workers))

	return e, nil
}

// validate checks option values.
func (e *Exporter) validate() error {
	if e.cfg.page == nil {
		e.cfg.page = DefaultPageSettings()
	}
	if err := e.cfg.page.Validate(); err != nil {
		return err
	}
	if e.cfg.imageQuality < 1 || e.cfg.imageQuality > 100 {
		return fmt.Errorf("%w: %d (must be between 1 and 100)", ErrInvalidImageQuality, e.cfg.imageQuality)
	}
	if e.cfg.scale <= 0 || e.cfg.scale > MaxScale {
		return fmt.Errorf("%w: %.2f (must be greater than 0 and at most %.0f)", ErrInvalidScale, e.cfg.scale, MaxScale)
	}
	return nil
}

// Export produces the bytes of req. Failures wrap ErrExport together with
// the underlying sentinel. Recovers from internal panics to prevent crashes
// from propagating to callers.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrExport, r)
		}
	}()

	kind, err := ParseExportKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ContentBody) == "" {
		return nil, ErrEmptyContent
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.timeout)
	defer cancel()

	var data []byte
	switch kind {
	case ExportTXT:
		data = []byte(req.Title + "\n\n" + req.ContentBody)
	case ExportMD:
		data, err = e.markdown(req)
	case ExportPDF, ExportJPEG:
		data, err = e.rendered(ctx, req, kind)
	}
	if err != nil {
		e.log.Warn("export failed", "kind", string(kind), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	name := exportFilename(req.CustomFilename, req.Title, e.cfg.defaultName, kind)
	e.log.Debug("export done", "kind", string(kind), "filename", name, "bytes", len(data))
	notifierFrom(ctx, e.notifier).Notify(exportNotice(kind))

	return &ExportResult{
		Filename:    name,
		ContentType: kind.ContentType(),
		Data:        data,
	}, nil
}

// Close releases the browser.
func (e *Exporter) Close() error {
	if e.pool != nil {
		return e.pool.Close()
	}
	return nil
}

// exportNotice returns the notice for a finished export.
func exportNotice(kind ExportKind) Notice {
	label := strings.ToUpper(string(kind))
	return Notice{
		Level:       NoticeInfo,
		Title:       label + " downloaded!",
		Description: "Your document has been saved as " + label + ".",
	}
}

// documentTitle returns the printed title.
func documentTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultDocumentTitle
}

// markdown converts the titled body to Markdown.
func (e *Exporter) markdown(req ExportRequest) ([]byte, error) {
	body, err := markup.Sanitize(req.ContentBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsafeMarkup, err)
	}
	fragment := "<h1>" + html.EscapeString(documentTitle(req.Title)) + "</h1>\n" + body
	md, err := e.mdWriter.ToMarkdown(fragment)
	if err != nil {
		return nil, err
	}
	return []byte(md + "\n"), nil
}

// documentData is the document template input.
type documentData struct {
	Title string
	Body  template.HTML
}

// buildDocument renders the full HTML page for kind. The body is
// re-sanitized so only the allowed markup subset reaches the browser.
func (e *Exporter) buildDocument(title, body string, kind ExportKind) (string, error) {
	safe, err := markup.Sanitize(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsafeMarkup, err)
	}

	var buf bytes.Buffer
	data := documentData{
		Title: documentTitle(title),
		Body:  template.HTML(safe), // #nosec G203 -- sanitized above
	}
	if err := e.docTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	// Order matters: page breaks first, style sheet can override
	css := buildPageBreaksCSS() + e.css
	if kind == ExportJPEG {
		css += buildScreenCSS(e.cfg.page)
	}
	return markup.InjectCSS(buf.String(), css), nil
}

// renderResult carries the outcome of a render across goroutines.
type renderResult struct {
	data []byte
	err  error
}

// rendered builds the document and renders it on a pooled surface. The
// render runs as a future so ctx cancellation returns immediately; the
// surface is still released by the render goroutine.
func (e *Exporter) rendered(ctx context.Context, req ExportRequest, kind ExportKind) ([]byte, error) {
	doc, err := e.buildDocument(req.Title, req.ContentBody, kind)
	if err != nil {
		return nil, err
	}

	resultCh := make(chan renderResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- renderResult{err: fmt.Errorf("render panic: %v", r)}
			}
		}()
		data, err := e.renderOnSurface(ctx, doc, kind)
		resultCh <- renderResult{data: data, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// renderOnSurface acquires a surface, renders doc and releases the surface
// on every exit path.
func (e *Exporter) renderOnSurface(ctx context.Context, doc string, kind ExportKind) ([]byte, error) {
	surface, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := surface.Release(); rerr != nil {
			e.log.Warn("releasing render surface", "error", rerr)
		}
	}()

	if err := surface.Load(ctx, doc); err != nil {
		return nil, err
	}

	opts := &renderOptions{
		Page:         e.cfg.page,
		ImageQuality: e.cfg.imageQuality,
		Scale:        e.cfg.scale,
	}
	if kind == ExportJPEG {
		return surface.Screenshot(ctx, opts)
	}
	return surface.PDF(ctx, opts)
}
