package pipeline

import "strings"

// inputNormalizer undoes the escaping Trello exports apply to multi-line
// descriptions: literal "\n" and "\t" sequences become real newlines and
// tabs, and CRLF line endings become LF. The replacements only produce
// control characters, so a single pass matches applying them in sequence.
var inputNormalizer = strings.NewReplacer(
	"\r\n", "\n",
	`\n\n`, "\n\n",
	`\n`, "\n",
	`\t`, "\t",
)

// NormalizeInput canonicalizes line endings and escaped whitespace.
func NormalizeInput(content string) string {
	return inputNormalizer.Replace(content)
}
