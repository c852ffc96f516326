package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: trello2pdf [convert] --txt <card.txt> [flags]")
	fmt.Fprintln(w, "       trello2pdf <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a Trello card export to PDF (default)")
	fmt.Fprintln(w, "  doctor     Check external tools and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'trello2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: trello2pdf [convert] --txt <card.txt> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download the images linked from a Trello card export, stage them")
	fmt.Fprintln(w, "next to a Markdown copy of the card and render it to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "      --txt <path>          Card export text file (required)")
	fmt.Fprintln(w, "  -o, --out <path>          Output PDF (default output.pdf)")
	fmt.Fprintln(w, "      --workdir <path>      Staging directory (default: directory of --txt)")
	fmt.Fprintln(w, "      --keep-md             Keep the intermediate card.md")
	fmt.Fprintln(w, "      --html                Also write card.html preview")
	fmt.Fprintln(w, "      --watch               Re-run when the --txt file changes; images are")
	fmt.Fprintln(w, "                            downloaded again over the previous run's copies")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --engine <name>       pandoc (default) or chrome")
	fmt.Fprintln(w, "      --font <name>         Main font family")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors, hide tool output")
	fmt.Fprintln(w, "  -v, --verbose             Show commands and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TRELLO_KEY, TRELLO_TOKEN  OAuth credentials for attachment downloads")
	fmt.Fprintln(w, "  TRELLO2PDF_CONFIG         Config file name or path")
	fmt.Fprintln(w, "  TRELLO2PDF_FONT           Main font family")
	fmt.Fprintln(w, "  TRELLO2PDF_ENGINE         Render engine")
	fmt.Fprintln(w, "  TRELLO2PDF_WORKDIR        Staging directory")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: trello2pdf doctor [--json] [-c config]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check curl, pandoc, the PDF engine, Chrome and Trello credentials.")
	fmt.Fprintln(w, "Exits 1 when a tool required by the configured engine is missing.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: trello2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: trello2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
