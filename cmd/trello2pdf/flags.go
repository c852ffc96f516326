package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds flags about what gets written and where.
type outputFlags struct {
	output  string
	workdir string
	keepMD  bool
	html    bool
}

// renderFlags holds renderer selection flags.
type renderFlags struct {
	engine string
	font   string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common commonFlags
	txt    string
	watch  bool
	out    outputFlags
	render renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show commands and timing")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "out", "o", "", "output PDF path (default output.pdf)")
	fs.StringVar(&f.workdir, "workdir", "", "staging directory (default: directory of --txt)")
	fs.BoolVar(&f.keepMD, "keep-md", false, "keep the intermediate card.md")
	fs.BoolVar(&f.html, "html", false, "also write card.html preview")
}

// addRenderFlags adds renderer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.engine, "engine", "", "render engine: pandoc, chrome")
	fs.StringVar(&f.font, "font", "", "main font family")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := &convertFlags{}

	fs.StringVar(&f.txt, "txt", "", "card export text file (required)")
	fs.BoolVar(&f.watch, "watch", false, "re-run when the --txt file changes")

	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.out)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (jsonOutput bool, configName string, err error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	fs.StringVarP(&configName, "config", "c", "", "config file name or path")
	err = fs.Parse(args)
	return jsonOutput, configName, err
}
