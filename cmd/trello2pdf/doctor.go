package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	trello2pdf "github.com/alnah/go-trello2pdf"
	"github.com/alnah/go-trello2pdf/internal/config"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// Overridable for tests.
var (
	lookPath       = exec.LookPath
	lookChromePath = launcher.LookPath
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"` // "ready", "warnings", "errors"
	Engine      string          `json:"engine"`
	Tools       []toolInfo      `json:"tools"`
	Chrome      chromeInfo      `json:"chrome"`
	Credentials credentialsInfo `json:"credentials"`
	Env         envInfo         `json:"environment"`
	System      systemInfo      `json:"system"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// toolInfo holds the lookup result for one external command.
type toolInfo struct {
	Name     string `json:"name"`
	Binary   string `json:"binary"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Required bool   `json:"required"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Required bool   `json:"required"`
	Sandbox  bool   `json:"sandbox"`
}

// credentialsInfo reports which Trello credentials are present. Values are
// never included.
type credentialsInfo struct {
	Key   bool `json:"key"`
	Token bool `json:"token"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput, configName, err := parseDoctorFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		printDoctorUsage(env.Stderr)
		return ExitUsage
	}

	cfg := config.DefaultConfig()
	if name := firstNonEmpty(configName, os.Getenv("TRELLO2PDF_CONFIG")); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		cfg = loaded
	}
	if engine := os.Getenv("TRELLO2PDF_ENGINE"); engine != "" {
		cfg.Engine = engine
	}

	result := runDoctor(cfg)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks against cfg.
func runDoctor(cfg *config.Config) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Engine: strings.ToLower(cfg.Engine),
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkTools(result, cfg)
	checkChrome(result, cfg)
	checkCredentials(result)
	checkEnvironment(result)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkTools looks up curl and, for the pandoc engine, pandoc and its
// PDF engine.
func checkTools(result *doctorResult, cfg *config.Config) {
	pandoc := result.Engine == config.EnginePandoc
	tools := []toolInfo{
		{Name: "curl", Binary: firstNonEmpty(cfg.Fetch.Binary, trello2pdf.DefaultCurlBinary), Required: true},
		{Name: "pandoc", Binary: firstNonEmpty(cfg.Pandoc.Binary, trello2pdf.DefaultPandocBinary), Required: pandoc},
		{Name: "pdf engine", Binary: firstNonEmpty(cfg.Pandoc.PDFEngine, trello2pdf.DefaultPDFEngine), Required: pandoc},
	}

	for i := range tools {
		t := &tools[i]
		path, err := lookPath(t.Binary)
		if err == nil {
			t.Found = true
			t.Path = path
			continue
		}
		msg := fmt.Sprintf("%s not found on PATH", t.Binary)
		if t.Required {
			result.Errors = append(result.Errors, msg)
		} else {
			result.Warnings = append(result.Warnings, msg+" (only needed for the pandoc engine)")
		}
	}
	result.Tools = tools
}

// checkChrome detects Chrome/Chromium installation. Missing Chrome is an
// error only for the chrome engine.
func checkChrome(result *doctorResult, cfg *config.Config) {
	result.Chrome.Required = result.Engine == config.EngineChrome
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"

	chromePath := firstNonEmpty(cfg.Chrome.Binary, result.Env.BrowserBin)
	if chromePath == "" {
		var found bool
		chromePath, found = lookChromePath()
		if !found {
			chromeProblem(result, "Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		chromeProblem(result, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
}

func chromeProblem(result *doctorResult, msg string) {
	if result.Chrome.Required {
		result.Errors = append(result.Errors, msg)
		return
	}
	result.Warnings = append(result.Warnings, msg+" (only needed for the chrome engine)")
}

// checkCredentials reports TRELLO_KEY/TRELLO_TOKEN presence.
func checkCredentials(result *doctorResult) {
	creds := trello2pdf.NewCredentials(os.Getenv("TRELLO_KEY"), os.Getenv("TRELLO_TOKEN"))
	result.Credentials = credentialsInfo{Key: creds.Key != "", Token: creds.Token != ""}

	switch {
	case result.Credentials.Key && result.Credentials.Token:
	case result.Credentials.Key || result.Credentials.Token:
		result.Warnings = append(result.Warnings,
			"Only one of TRELLO_KEY/TRELLO_TOKEN is set; downloads will not be authenticated")
	default:
		result.Warnings = append(result.Warnings,
			"TRELLO_KEY/TRELLO_TOKEN not set; private card attachments will fail to download")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Engine == config.EngineChrome && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("TRELLO2PDF_CONTAINER") == "1" {
		return true, "TRELLO2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used by the chrome engine.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "trello2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "trello2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Tools (engine: %s)\n", r.Engine)
	for _, t := range r.Tools {
		switch {
		case t.Found:
			fmt.Fprintf(w, "  [OK] %s: %s\n", t.Name, t.Path)
		case t.Required:
			fmt.Fprintf(w, "  [ERROR] %s: %s not found\n", t.Name, t.Binary)
		default:
			fmt.Fprintf(w, "  [WARN] %s: %s not found\n", t.Name, t.Binary)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Chrome.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	case r.Chrome.Required:
		fmt.Fprintln(w, "  [ERROR] Not found")
	default:
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Trello credentials")
	fmt.Fprintf(w, "  %s TRELLO_KEY\n", presence(r.Credentials.Key))
	fmt.Fprintf(w, "  %s TRELLO_TOKEN\n", presence(r.Credentials.Token))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func presence(set bool) string {
	if set {
		return "[OK] set:"
	}
	return "[WARN] missing:"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
