// Package markup holds the HTML tooling shared by the formatting and export
// paths: the sanitizing policy for the allowed markup subset, the nesting
// depth bound, Markdown to HTML conversion for model replies, HTML to
// Markdown conversion for the Markdown export, and style sheet injection.
package markup
