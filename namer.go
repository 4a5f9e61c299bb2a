package autoformat

import (
	"strings"

	"github.com/alnah/go-autoformat/internal/fileutil"
)

// DefaultExportName is used when neither a custom filename nor a title is set.
const DefaultExportName = "document"

// ResolveName returns the base name of an exported file: the trimmed custom
// filename, else the trimmed title, else DefaultExportName.
func ResolveName(customFilename, title string) string {
	return ResolveNameWithDefault(customFilename, title, DefaultExportName)
}

// ResolveNameWithDefault is ResolveName with a configurable last resort.
// An empty defaultName falls back to DefaultExportName.
func ResolveNameWithDefault(customFilename, title, defaultName string) string {
	for _, candidate := range []string{customFilename, title, defaultName} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return DefaultExportName
}

// exportFilename resolves the name, makes it safe for disk and HTTP headers
// and appends the extension of kind.
func exportFilename(customFilename, title, defaultName string, kind ExportKind) string {
	name := fileutil.SanitizeFilename(ResolveNameWithDefault(customFilename, title, defaultName))
	if name == "" {
		name = DefaultExportName
	}
	return name + "." + kind.Extension()
}
