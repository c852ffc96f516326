// Package pipeline holds the text stages around the PDF engines:
//   - input normalization (escaped line breaks and tabs in Trello exports)
//   - local image discovery in staged Markdown
//   - Markdown to standalone HTML via Goldmark, for previews and the
//     Chrome engine
//   - image source rewriting so the browser can load staged assets
//
// Asset download and pandoc invocation live in the root trello2pdf package.
package pipeline
