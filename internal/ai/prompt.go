package ai

import (
	"fmt"
	"strings"
)

// toneInstruction maps each tone to its voice instruction.
// Adding a Tone without a case here fails TestToneInstruction_Exhaustive.
func toneInstruction(t Tone) (string, error) {
	switch t {
	case ToneCasual:
		return "Keep the voice casual and light, while staying readable and well organized.", nil
	case ToneProfessional:
		return "Use a neutral, professional voice suitable for business documents.", nil
	case ToneStory:
		return "Shape the text into an engaging narrative that reads like a story.", nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTone, string(t))
}

const promptHeader = `You are an experienced editor who formats content for publication.

Rewrite the messy, unstructured text below into clean, well organized prose. Keep the original meaning.

Rules:
1. Grammar and typos: fix spelling, grammar and punctuation. Replace chat slang and shorthand (u, lol, idk, cuz, btw, tbh) with plain language.
2. Paragraphs: split long content into paragraphs that each carry one idea.
3. Subheadings: when the topic shifts, add a short descriptive h2 subheading.
4. Sentences: keep sentences a readable length and split run-on sentences.
5. Punctuation: use dashes, ellipses and curly quotes only where they help.
6. Tone: `

const promptFooter = `
7. Optional: open with a one or two line introduction, close with a short summary if the text stops abruptly, and condense repetition.

Output format:
- Return HTML only, using h2, p, ul, li, strong and em.
- Do not wrap the reply in code fences.
- Do not add commentary, notes or remarks about how clear the input was.

Text:
`

// BuildPrompt returns the instruction sent to the model for content in tone.
func BuildPrompt(content string, tone Tone) (string, error) {
	voice, err := toneInstruction(tone)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(promptHeader) + len(voice) + len(promptFooter) + len(content))
	b.WriteString(promptHeader)
	b.WriteString(voice)
	b.WriteString(promptFooter)
	b.WriteString(content)
	return b.String(), nil
}
