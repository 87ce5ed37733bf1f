package prompt

// instructions follows the submitted text. Keys and example must stay in
// sync with normalize.Normalize.
const instructions = "You must respond ONLY with valid JSON containing these keys: " +
	"title, topics (list of 3 key topics), sentiment (positive/neutral/negative), keywords & summary. " +
	"Do not include any explanation or extra text. " +
	`Example: {"title": "...", "topics": ["...", "...", "..."], "sentiment": "...", "keywords": ["...", "...", "..."], "summary": "..."}. `

// Build embeds text verbatim ahead of the JSON instructions. The caller
// trims and validates text; nothing is escaped.
func Build(text string) string {
	return "Text: " + text + "\n\n" + instructions
}
