package fsdiag

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Diag runs scan, report-new and compare for one root directory
type Diag struct {
	RootDir string

	config        *Config
	console       *Console
	ignoreManager *IgnoreManager
	algorithm     *HashAlgorithm
	bufferSize    int
	format        string
	now           func() time.Time
}

// NewDiag creates a Diag for rootDir. Status lines go to out; cfg may be nil
// for the built-in defaults.
func NewDiag(rootDir string, cfg *Config, out io.Writer) (*Diag, error) {
	defer VerboseEnter()()

	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	all := cfg.GetAllConfig()

	console, err := NewConsole(out, all.Output.Color)
	if err != nil {
		return nil, err
	}

	algorithm, err := GetHashAlgorithm(all.Hash.Default)
	if err != nil {
		return nil, err
	}

	bufferSize, err := ParseHumanSize(all.Hash.Buffer)
	if err != nil {
		return nil, fmt.Errorf("invalid hash buffer: %w", err)
	}

	ignoreManager := NewIgnoreManager(all.Scan.Ignore)
	if err := ignoreManager.LoadIgnorePatterns(); err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	if ignoreManager.HasPatterns() {
		VerboseLog(1, "ignore patterns from %s", ignoreManager.GetIgnoreFilePath())
	}

	VerboseLog(2, "root=%s hash=%s buffer=%d format=%s", rootDir, algorithm.Name, bufferSize, all.Output.Format)

	return &Diag{
		RootDir:       rootDir,
		config:        cfg,
		console:       console,
		ignoreManager: ignoreManager,
		algorithm:     algorithm,
		bufferSize:    bufferSize,
		format:        strings.ToLower(all.Output.Format),
		now:           time.Now,
	}, nil
}

// Console returns the console status lines are written to
func (d *Diag) Console() *Console {
	return d.console
}
