// Command bindgen ingests a VPP binary-API definition corpus and emits a
// strongly-typed Go client binding package. All argument handling lives
// here; the compiler packages receive one resolved configuration value.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vppapi/bindgen/compiler/gen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// fileConfig mirrors the flag surface for --config files. Flags set on
// the command line win over file values.
type fileConfig struct {
	InFile            string `yaml:"in-file"`
	OutFile           string `yaml:"out-file"`
	ParseType         string `yaml:"parse-type"`
	PackageName       string `yaml:"package-name"`
	PackagePath       string `yaml:"package-path"`
	DepSpec           string `yaml:"dep-spec"`
	PrintMessageNames *bool  `yaml:"print-message-names"`
	GenerateCode      *bool  `yaml:"generate-code"`
	CreateBinding     *bool  `yaml:"create-binding"`
	CreatePackage     *bool  `yaml:"create-package"`
}

func newRootCmd() *cobra.Command {
	var (
		inFile            string
		outFile           string
		parseType         string
		packageName       string
		packagePath       string
		depSpec           string
		printMessageNames bool
		generateCode      bool
		createBinding     bool
		createPackage     bool
		verbose           int
		cfgFile           string
		watch             bool
	)
	cmd := &cobra.Command{
		Use:           "bindgen",
		Short:         "Generate Go bindings from VPP binary-API definitions",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgFile != "" {
				data, err := os.ReadFile(cfgFile)
				if err != nil {
					return fmt.Errorf("read config %s: %w", cfgFile, err)
				}
				var fc fileConfig
				if err := yaml.Unmarshal(data, &fc); err != nil {
					return fmt.Errorf("parse config %s: %w", cfgFile, err)
				}
				flags := cmd.Flags()
				setIf := func(name string, dst *string, v string) {
					if !flags.Changed(name) && v != "" {
						*dst = v
					}
				}
				setIf("in-file", &inFile, fc.InFile)
				setIf("out-file", &outFile, fc.OutFile)
				setIf("parse-type", &parseType, fc.ParseType)
				setIf("package-name", &packageName, fc.PackageName)
				setIf("package-path", &packagePath, fc.PackagePath)
				setIf("dep-spec", &depSpec, fc.DepSpec)
				setBoolIf := func(name string, dst *bool, v *bool) {
					if !flags.Changed(name) && v != nil {
						*dst = *v
					}
				}
				setBoolIf("print-message-names", &printMessageNames, fc.PrintMessageNames)
				setBoolIf("generate-code", &generateCode, fc.GenerateCode)
				setBoolIf("create-binding", &createBinding, fc.CreateBinding)
				setBoolIf("create-package", &createPackage, fc.CreatePackage)
			}
			mode, err := gen.ParseModeFromString(parseType)
			if err != nil {
				return err
			}
			log := newLogger(verbose)
			opts := []gen.Option{
				gen.WithInput(inFile),
				gen.WithMode(mode),
				gen.WithPrintMessageNames(printMessageNames),
				gen.WithGenerateCode(generateCode),
				gen.WithCreateBinding(createBinding),
				gen.WithCreatePackage(createPackage),
				gen.WithVerbose(verbose),
				gen.WithLogger(log),
			}
			if outFile != "" {
				opts = append(opts, gen.WithOutput(outFile))
			}
			if packageName != "" {
				opts = append(opts, gen.WithPackageName(packageName))
			}
			if packagePath != "" {
				opts = append(opts, gen.WithPackagePath(packagePath))
			}
			if depSpec != "" {
				opts = append(opts, gen.WithDepSpec(depSpec))
			}
			cfg, err := gen.NewConfig(opts...)
			if err != nil {
				return err
			}
			if watch {
				return watchAndRun(cmd.Context(), cfg)
			}
			return gen.NewAssembler(cfg).Run(cmd.Context())
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&inFile, "in-file", "i", "", "input file or directory")
	flags.StringVarP(&outFile, "out-file", "o", "", "output file name for single-file modes")
	flags.StringVarP(&parseType, "parse-type", "p", string(gen.ModeFile), "parse type: File, Tree, ApiType or ApiMessage")
	flags.StringVar(&packageName, "package-name", "", "name of the generated package")
	flags.StringVar(&packagePath, "package-path", "", "destination directory for generated artifacts")
	flags.StringVar(&depSpec, "dep-spec", "", "dependency line inserted verbatim into the generated manifest")
	flags.BoolVar(&printMessageNames, "print-message-names", false, "list every message name and crc")
	flags.BoolVar(&generateCode, "generate-code", false, "run the code emitter")
	flags.BoolVar(&createBinding, "create-binding", false, "emit the ordered binding")
	flags.BoolVar(&createPackage, "create-package", false, "scaffold a full installable package")
	flags.CountVarP(&verbose, "verbose", "v", "increase diagnostic volume (repeatable)")
	flags.StringVar(&cfgFile, "config", "", "YAML config file; flags override its values")
	flags.BoolVar(&watch, "watch", false, "rerun generation when the input tree changes")
	return cmd
}

// newLogger builds the diagnostic logger. Diagnostics go to stderr so they
// never mix with generated content or requested listings on stdout.
func newLogger(verbose int) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbose >= 3:
		level = zerolog.TraceLevel
	case verbose >= 1:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
