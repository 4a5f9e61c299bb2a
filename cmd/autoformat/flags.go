package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-autoformat"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// aiFlags holds AI formatting flags.
type aiFlags struct {
	tone      string
	noAI      bool
	aiTimeout string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
	marginSet   bool // 0 is a valid margin, so presence is tracked
}

// assetFlags holds style flags.
type assetFlags struct {
	style     string
	assetPath string
}

// renderFlags holds browser rendering flags.
type renderFlags struct {
	timeout string
	workers int
	quality int
	scale   float64
}

// formatFlags holds all flags for the format command.
type formatFlags struct {
	common commonFlags
	ai     aiFlags
	json   bool
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common   commonFlags
	ai       aiFlags
	page     pageFlags
	assets   assetFlags
	render   renderFlags
	kind     string
	title    string
	name     string
	output   string
	force    bool
	noFormat bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	ai      aiFlags
	page    pageFlags
	assets  assetFlags
	render  renderFlags
	addr    string
	origins []string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addAIFlags adds AI formatting flags to a FlagSet.
func addAIFlags(fs *flag.FlagSet, f *aiFlags) {
	fs.StringVar(&f.tone, "tone", "", "tone: casual, professional, story")
	fs.BoolVar(&f.noAI, "no-ai", false, "skip the AI client, use rule-based formatting")
	fs.StringVar(&f.aiTimeout, "ai-timeout", "", "AI request timeout (e.g., 30s, 2m)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0-3.0)")
}

// addAssetFlags adds style flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "style sheet name")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addRenderFlags adds browser rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent browser pages (0 = auto)")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality (1-100)")
	fs.Float64Var(&f.scale, "scale", 0, "JPEG device scale factor (1-4)")
}

// parseFormatFlags parses format command flags and returns positional args.
func parseFormatFlags(args []string, usage io.Writer) (*formatFlags, []string, error) {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	f := &formatFlags{}

	addCommonFlags(fs, &f.common)
	addAIFlags(fs, &f.ai)
	fs.BoolVar(&f.json, "json", false, "print markup, source, and notices as JSON")

	fs.Usage = func() { printFormatUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string, usage io.Writer) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}

	fs.StringVarP(&f.kind, "kind", "k", string(autoformat.ExportPDF), "export kind: pdf, txt, md, jpeg")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVarP(&f.name, "name", "n", "", "output filename without extension")
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing file")
	fs.BoolVar(&f.noFormat, "no-format", false, "export the raw content without formatting")

	addCommonFlags(fs, &f.common)
	addAIFlags(fs, &f.ai)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printExportUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	f.page.marginSet = fs.Changed("margin")
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, usage io.Writer) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g., :8080)")
	fs.StringSliceVar(&f.origins, "allow-origin", nil, "allowed CORS origin (repeatable)")

	addCommonFlags(fs, &f.common)
	addAIFlags(fs, &f.ai)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printServeUsage(usage) }

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	f.page.marginSet = fs.Changed("margin")
	return f, fs.Args(), nil
}

// parse runs fs.Parse and marks failures as usage errors.
// flag.ErrHelp is returned unwrapped.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}
