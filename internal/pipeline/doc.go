// Package pipeline implements the rule-based formatting pipeline.
//
// Raw pasted text flows through three pure stages:
//   - Normalize: lexical cleanup (pronoun casing, sentence capitalization,
//     punctuation runs, spacing, inline code detection)
//   - Classify: line classification into a Block sequence (heading, list
//     item, paragraph start, paragraph continuation)
//   - Render: Block sequence to an HTML fragment with inline styles
//
// RuleBased chains the three stages. It never fails, so it backs the
// AI-assisted formatter in the root autoformat package whenever the remote
// call is unavailable. Tone has no effect here.
package pipeline
