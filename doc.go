// Package trello2pdf turns a Trello card export into a PDF.
//
// # Quick Start
//
//	conv := trello2pdf.NewConverter(
//	    trello2pdf.WithCredentials(trello2pdf.NewCredentials(key, token)),
//	)
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, trello2pdf.Input{
//	    TextPath:   "card.txt",
//	    OutputPath: "card.pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
//
// # Conversion Pipeline
//
// Stages run strictly in sequence:
//
//  1. Input normalization (CRLF and escaped \n, \t sequences)
//  2. Image link rewriting: each [name.png](url) reference is downloaded
//     once into <workdir>/assets and replaced by a local image
//  3. Staging of card.md and header.tex in the workdir
//  4. PDF rendering, by default with pandoc and xelatex
//  5. Removal of card.md unless Input.KeepMarkdown is set
//
// Downloads run one at a time through an external curl process. Trello
// attachment URLs require an OAuth header; pass Credentials to attach it.
// The library never reads credentials from the environment itself.
//
// # Engines
//
// PandocRenderer (default) shells out to pandoc. ChromeRenderer renders the
// same staged Markdown through Goldmark and headless Chrome (go-rod), for
// machines without a TeX distribution. go-rod downloads a managed Chromium
// on first use unless ROD_BROWSER_BIN points to an installed one. Set
// ROD_NO_SANDBOX=1 in containers.
//
// # Command line
//
// cmd/trello2pdf wraps Converter:
//
//	trello2pdf --txt card.txt -o card.pdf [--keep-md] [--engine chrome]
//	trello2pdf doctor
//
// It reads TRELLO_KEY and TRELLO_TOKEN from the environment.
package trello2pdf
