package gen

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ParseMode selects the traversal strategy for a run.
type ParseMode string

const (
	// ModeFile parses a single definition file.
	ModeFile ParseMode = "File"
	// ModeTree descends a directory tree of definition files.
	ModeTree ParseMode = "Tree"
	// ModeType parses a single composite type definition.
	ModeType ParseMode = "ApiType"
	// ModeMessage parses a single message definition.
	ModeMessage ParseMode = "ApiMessage"
)

// ParseModeFromString converts a CLI string into a ParseMode.
func ParseModeFromString(s string) (ParseMode, error) {
	switch ParseMode(s) {
	case ModeFile, ModeTree, ModeType, ModeMessage:
		return ParseMode(s), nil
	}
	return "", NewConfigError("ParseMode", s, "use File, Tree, ApiType or ApiMessage")
}

// Config is the single options value driving a run. The core never parses
// command-line arguments; cmd/bindgen (or any other caller) resolves them
// into a Config first.
type Config struct {
	// InFile is the root file or directory to load.
	InFile string
	// OutFile is the output file for single-file parse modes.
	OutFile string
	// Mode selects the traversal strategy.
	Mode ParseMode
	// PackageName names the generated package, its manifest and directory.
	PackageName string
	// PackagePath is the destination directory for generated artifacts.
	PackagePath string
	// DepSpec is inserted verbatim into the generated manifest's
	// dependency section.
	DepSpec string
	// PrintMessageNames lists every (name, crc) pair found. Diagnostic only.
	PrintMessageNames bool
	// GenerateCode toggles whether the emitter runs at all.
	GenerateCode bool
	// CreateBinding toggles the types-then-rest binding emission pass.
	CreateBinding bool
	// CreatePackage toggles full package scaffolding.
	CreatePackage bool
	// Verbose controls diagnostic volume only.
	Verbose int

	// Logger receives diagnostics. Never mixed with generated content.
	Logger zerolog.Logger
	// Out receives requested listings such as message names.
	Out io.Writer
}

// Option configures a run.
type Option func(*Config) error

// WithInput sets the root file or directory to load.
func WithInput(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("InFile", nil, "input path cannot be empty")
		}
		c.InFile = path
		return nil
	}
}

// WithOutput sets the output file for single-file parse modes.
func WithOutput(path string) Option {
	return func(c *Config) error {
		c.OutFile = path
		return nil
	}
}

// WithMode sets the traversal strategy.
func WithMode(m ParseMode) Option {
	return func(c *Config) error {
		switch m {
		case ModeFile, ModeTree, ModeType, ModeMessage:
			c.Mode = m
			return nil
		}
		return NewConfigError("ParseMode", m, "unknown parse mode")
	}
}

// WithPackageName sets the generated package name.
func WithPackageName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("PackageName", nil, "package name cannot be empty")
		}
		c.PackageName = name
		return nil
	}
}

// WithPackagePath sets the destination directory for generated artifacts.
func WithPackagePath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("PackagePath", nil, "package path cannot be empty")
		}
		c.PackagePath = path
		return nil
	}
}

// WithDepSpec sets the verbatim dependency line for the generated manifest.
func WithDepSpec(spec string) Option {
	return func(c *Config) error {
		c.DepSpec = spec
		return nil
	}
}

// WithPrintMessageNames toggles the (name, crc) listing.
func WithPrintMessageNames(on bool) Option {
	return func(c *Config) error {
		c.PrintMessageNames = on
		return nil
	}
}

// WithGenerateCode toggles per-file code emission.
func WithGenerateCode(on bool) Option {
	return func(c *Config) error {
		c.GenerateCode = on
		return nil
	}
}

// WithCreateBinding toggles the ordered binding emission pass.
func WithCreateBinding(on bool) Option {
	return func(c *Config) error {
		c.CreateBinding = on
		return nil
	}
}

// WithCreatePackage toggles full package scaffolding.
func WithCreatePackage(on bool) Option {
	return func(c *Config) error {
		c.CreatePackage = on
		return nil
	}
}

// WithVerbose sets the diagnostic volume.
func WithVerbose(level int) Option {
	return func(c *Config) error {
		c.Verbose = level
		return nil
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = log
		return nil
	}
}

// WithListingWriter sets the destination for requested listings.
func WithListingWriter(w io.Writer) Option {
	return func(c *Config) error {
		if w == nil {
			return NewConfigError("Out", nil, "listing writer cannot be nil")
		}
		c.Out = w
		return nil
	}
}

// NewConfig builds a validated Config from options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		OutFile:     "dummy.go",
		Mode:        ModeFile,
		PackageName: "vppapi",
		PackagePath: ".",
		DepSpec:     fmt.Sprintf("%s %s", modulePath, "v0.1.0"),
		Logger:      zerolog.New(os.Stderr).With().Timestamp().Logger(),
		Out:         os.Stdout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.InFile == "" {
		return nil, NewConfigError("InFile", nil, "input path is required")
	}
	return c, nil
}
