// Package autoformat turns unstructured pasted text into a structured HTML
// document and exports it as PDF, JPEG, plain text or Markdown.
//
// # Quick Start
//
// Format with the rule-based formatter, then export:
//
//	f := autoformat.NewFormatter()
//	res, err := f.Format(ctx, "INTRODUCTION\n\ni think this works", autoformat.DefaultTone)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := autoformat.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	out, err := exp.Export(ctx, autoformat.ExportRequest{
//	    Title:       "Notes",
//	    ContentBody: res.Markup,
//	    Kind:        autoformat.ExportPDF,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(out.Filename, out.Data, 0644)
//
// # AI Formatting
//
// Pass an AI client to format with a tone. Any AI failure falls back to the
// rule-based formatter; the result records which path produced it:
//
//	f := autoformat.NewFormatter(
//	    autoformat.WithAIClient(ai.NewGeminiClient(ai.GeminiConfig{APIKey: key})),
//	    autoformat.WithAITimeout(30 * time.Second),
//	)
//	res, _ := f.Format(ctx, text, autoformat.ToneStory)
//	if res.Source == autoformat.SourceRuleBased {
//	    log.Printf("fallback: %v", res.FallbackErr)
//	}
//
// AI replies are reduced to headings, paragraphs, lists, inline emphasis and
// code before they are returned.
//
// # Sessions
//
// A Session holds one document for an interactive editor. A Format call
// cancels the previous pending one, so a slow reply never overwrites a newer
// result:
//
//	s := autoformat.NewSession(f, exp)
//	s.SetTitle("Notes")
//	s.SetContent(text)
//	if _, err := s.Format(ctx); errors.Is(err, autoformat.ErrSuperseded) {
//	    return
//	}
//	out, err := s.Export(ctx, autoformat.ExportTXT, "")
//
// # Export Names
//
// Files are named after the custom filename, else the title, else
// "document", with characters unsafe for file systems replaced.
//
// # Notices
//
// Formatter and Exporter report user-facing notices ("Content formatted!",
// "PDF downloaded!") to a Notifier set by option or carried by the context
// with ContextWithNotifier.
package autoformat
