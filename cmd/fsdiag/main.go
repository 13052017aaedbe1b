package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	fsdiag "github.com/mattkeenan/fsdiag/pkg"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1 // Runtime error reported by an operation
	exitUsage   = 2 // Bad options or configuration
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// defineOptions declares every command-line option
func defineOptions() *ParsedOptions {
	options := NewParsedOptions()

	options.DefineOption("output", "o", OptionTypeString, "", "FILE", "manifest name for scan (default "+fsdiag.DefaultOutputFile+")")
	options.DefineOption("extension", "", OptionTypeString, "", "EXT", "only scan files whose path ends with EXT")
	options.DefineOption("compare", "c", OptionTypeString, "", "FILE", "validate the tree against a manifest")
	options.DefineOption("new", "n", OptionTypeString, "", "N", "report files created within N days")
	options.DefineOption("untracked", "u", OptionTypeBool, "", "", "with --compare, also list files not in the manifest")
	options.DefineOption("format", "", OptionTypeString, "", "FMT", "manifest encoding: plain | jsonl")
	options.DefineOption("hash", "", OptionTypeString, "", "ALGO", "digest algorithm for scan: md5 | sha1 | sha256 | sha512")
	options.DefineOption("ignore", "i", OptionTypeString, "", "FILE", "ignore-pattern file")
	options.DefineOption("config", "", OptionTypeString, "", "FILE", "configuration file")
	options.DefineOption("set", "", OptionTypeStringList, "", "KEY:VALUE", "configuration override, repeatable")
	options.DefineOption("color", "", OptionTypeString, "", "WHEN", "auto | always | never")
	options.DefineOption("verbose", "v", OptionTypeCount, "", "", "verbose diagnostics on stderr, repeatable")
	options.DefineOption("debug", "", OptionTypeString, "", "FLAGS", "comma-separated debug flags (walk,hash,manifest,compare)")
	options.DefineOption("help", "h", OptionTypeBool, "", "", "show this help")
	options.DefineOption("version", "", OptionTypeBool, "", "", "print version")

	return options
}

// modeConflicts lists, per mode option, the options it cannot be combined with
var modeConflicts = []struct {
	option    string
	conflicts []string
}{
	{"compare", []string{"new", "output", "extension"}},
	{"new", []string{"compare", "extension", "output"}},
}

// checkModes rejects option combinations that select more than one operation
func checkModes(options *ParsedOptions) error {
	for _, mode := range modeConflicts {
		if !options.IsSet(mode.option) {
			continue
		}
		for _, other := range mode.conflicts {
			if options.IsSet(other) {
				return fmt.Errorf("--%s cannot be used with --%s", mode.option, other)
			}
		}
	}
	if options.GetBool("untracked") && !options.IsSet("compare") {
		return fmt.Errorf("--untracked requires --compare")
	}
	return nil
}

// cliOverrides turns dedicated options into configuration overrides. They are
// applied after --set so the dedicated option wins.
func cliOverrides(options *ParsedOptions) []string {
	mapping := []struct {
		option, key string
	}{
		{"output", "file"},
		{"format", "format"},
		{"hash", "default"},
		{"ignore", "ignore"},
		{"color", "color"},
		{"debug", "debug"},
	}

	var overrides []string
	for _, m := range mapping {
		if options.IsSet(m.option) {
			overrides = append(overrides, m.key+":"+options.GetString(m.option))
		}
	}
	if options.IsSet("verbose") {
		overrides = append(overrides, "level:"+strconv.Itoa(min(options.GetInt("verbose"), 3)))
	}
	return overrides
}

// loadConfig reads the configuration file and applies every override
func loadConfig(options *ParsedOptions) (*fsdiag.Config, error) {
	config, err := fsdiag.LoadConfig(options.GetString("config"))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(options.GetStrings("set")); err != nil {
		return nil, err
	}
	if err := config.ApplyOverrides(cliOverrides(options)); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	options := defineOptions()

	if err := options.Parse(args); err != nil {
		return usageError(stderr, err)
	}

	if options.GetBool("help") {
		showHelp(stdout, options)
		return exitOK
	}
	if options.GetBool("version") {
		fmt.Fprintf(stdout, "fsdiag %s\n", fsdiag.Version)
		return exitOK
	}

	paths := options.GetArgs()
	switch {
	case len(paths) == 0:
		return usageError(stderr, fmt.Errorf("missing <path>"))
	case len(paths) > 1:
		return usageError(stderr, fmt.Errorf("expected one <path>, got %d", len(paths)))
	}
	if err := checkModes(options); err != nil {
		return usageError(stderr, err)
	}

	config, err := loadConfig(options)
	if err != nil {
		return usageError(stderr, err)
	}

	verbose := config.GetVerboseConfig()
	fsdiag.SetLogOutput(stderr)
	fsdiag.SetVerboseLevel(verbose.Level)
	fsdiag.SetDebugFlags(verbose.Debug)
	if path := config.Path(); path != "" {
		fsdiag.VerboseLog(1, "configuration: %s", path)
	}

	d, err := fsdiag.NewDiag(paths[0], config, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "fsdiag: %v\n", err)
		return exitFailure
	}

	switch {
	case options.IsSet("new"):
		_, err = d.ReportNew(options.GetString("new"))
	case options.IsSet("compare"):
		_, err = d.Compare(options.GetString("compare"), options.GetBool("untracked"))
	default:
		_, err = d.Scan(options.GetString("extension"))
	}

	if err != nil {
		reportError(d.Console(), err)
		return exitFailure
	}
	return exitOK
}

// reportError prints the diagnostic for a failed operation
func reportError(console *fsdiag.Console, err error) {
	var openErr *fsdiag.ManifestOpenError

	switch {
	case errors.Is(err, fsdiag.ErrNoFiles):
		console.Failure("No files found matching specified criteria.")
	case errors.Is(err, fsdiag.ErrNoMatchingEntries):
		console.Failure("No files found with the specified path.")
	case errors.Is(err, fsdiag.ErrBadDays):
		console.Failure("Bad input argument for `--new` option.")
	case errors.As(err, &openErr):
		console.Failure("Failed to open - %v", openErr.Err)
	default:
		console.Failure("%v", err)
	}
}

func usageError(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "fsdiag: %v\n", err)
	fmt.Fprintf(stderr, "Try 'fsdiag --help' for more information.\n")
	return exitUsage
}

func showHelp(w io.Writer, options *ParsedOptions) {
	fmt.Fprintf(w, "fsdiag - file tree diagnostics\n\n")
	fmt.Fprintf(w, "Without a mode option, hashes every file under <path> into a manifest.\n")
	fmt.Fprintf(w, "--compare re-checks a manifest, --new lists recently created files.\n\n")
	options.ShowUsage(w, "fsdiag")
	fmt.Fprintf(w, "\nConfiguration: %s\n", fsdiag.DefaultConfigPath())
	fmt.Fprintf(w, "Override keys for --set: default, buffer, file, format, color, level, debug, ignore\n")
}
