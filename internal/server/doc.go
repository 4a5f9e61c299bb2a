// Package server exposes formatting and export over HTTP with a chi router.
//
// Routes:
//
//	POST    /format-with-ai  AI formatting only, {content, tone} -> {formattedContent} | 500 {error}
//	OPTIONS /format-with-ai  CORS preflight
//	POST    /api/format      formatting with fallback, {content, tone} -> {markup, source, notices}
//	POST    /api/export      {title, customFilename, content, formattedMarkup, kind} -> file
//	GET     /healthz         liveness
package server
