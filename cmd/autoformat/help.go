package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoformat <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  format     Format raw text into structured markup")
	fmt.Fprintln(w, "  export     Export text as PDF, TXT, Markdown, or JPEG")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  doctor     Check the browser, AI credential, and system")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'autoformat help <command>' for details on a specific command.")
}

// printAIUsage prints the AI flag block shared by several commands.
func printAIUsage(w io.Writer) {
	fmt.Fprintln(w, "Formatting:")
	fmt.Fprintln(w, "      --tone <s>            Tone: casual, professional, story")
	fmt.Fprintln(w, "      --no-ai               Use rule-based formatting only")
	fmt.Fprintln(w, "      --ai-timeout <d>      AI request timeout (e.g., 30s)")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printRenderUsage prints page, style, and browser flags.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --style <name>        Style sheet name (default, compact)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom asset directory")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent browser pages (0 = auto)")
	fmt.Fprintln(w, "      --quality <n>         JPEG quality (1-100)")
	fmt.Fprintln(w, "      --scale <f>           JPEG device scale factor (1-4)")
}

// printFormatUsage prints usage for the format command.
func printFormatUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoformat format [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Format raw text into headings, paragraphs, and lists.")
	fmt.Fprintln(w, "The AI client is tried first; rule-based formatting is the fallback.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Text file, or - for stdin (default: stdin)")
	fmt.Fprintln(w)
	printAIUsage(w)
	fmt.Fprintln(w, "      --json                Print markup, source, and notices as JSON")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoformat export [input] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Format text and export it as a file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Text file, or - for stdin (default: stdin)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -k, --kind <s>            Kind: pdf, txt, md, jpeg (default: pdf)")
	fmt.Fprintln(w, "      --title <s>           Document title")
	fmt.Fprintln(w, "  -n, --name <s>            Filename without extension")
	fmt.Fprintln(w, "                            Falls back to the title, then \"document\"")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: .)")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
	fmt.Fprintln(w, "      --no-format           Export the raw content")
	fmt.Fprintln(w)
	printAIUsage(w)
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: autoformat serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run the HTTP API:")
	fmt.Fprintln(w, "  POST /format-with-ai, POST /api/format, POST /api/export, GET /healthz")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <addr>         Listen address (default: :8080)")
	fmt.Fprintln(w, "      --allow-origin <s>    Allowed CORS origin (repeatable)")
	fmt.Fprintln(w)
	printAIUsage(w)
	fmt.Fprintln(w)
	printRenderUsage(w)
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdFormat:
		printFormatUsage(env.Stdout)
	case cmdExport:
		printExportUsage(env.Stdout)
	case cmdServe:
		printServeUsage(env.Stdout)
	case cmdDoctor:
		fmt.Fprintln(env.Stdout, "Usage: autoformat doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check the browser, AI credential, and system.")
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: autoformat version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: autoformat help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
