package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vppapi/bindgen/compiler/load"
)

// Assembler orchestrates the full pipeline: load, resolve, emit, write.
type Assembler struct {
	cfg    *Config
	log    zerolog.Logger
	loader *load.Loader
}

// NewAssembler returns an assembler for the given configuration.
func NewAssembler(cfg *Config) *Assembler {
	return &Assembler{cfg: cfg, log: cfg.Logger, loader: load.NewLoader(cfg.Logger)}
}

// Run executes one generation run according to the configured parse mode.
func (a *Assembler) Run(ctx context.Context) error {
	switch a.cfg.Mode {
	case ModeTree:
		return a.runTree(ctx)
	case ModeFile:
		return a.runFile(ctx)
	case ModeType:
		return a.runSingle(false)
	case ModeMessage:
		return a.runSingle(true)
	}
	return NewConfigError("ParseMode", a.cfg.Mode, "unknown parse mode")
}

// runFile parses a single definition file and optionally emits it.
func (a *Assembler) runFile(ctx context.Context) error {
	f, err := a.loader.LoadFile(a.cfg.InFile)
	if err != nil {
		return err
	}
	a.log.Info().
		Str("file", a.cfg.InFile).
		Str("version", f.VlAPIVersion).
		Int("services", len(f.Services)).
		Int("types", len(f.Types)).
		Int("messages", len(f.Messages)).
		Int("aliases", len(f.Aliases)).
		Int("imports", len(f.Imports)).
		Int("enums", len(f.Enums)).
		Int("unions", len(f.Unions)).
		Msg("parsed api definition")
	if a.cfg.Verbose > 1 {
		a.log.Debug().Interface("model", f).Msg("dump file")
	}
	if !a.cfg.GenerateCode {
		return nil
	}
	reg := make(EnumRegistry)
	registerEnums(reg, f)
	em := NewEmitter(a.cfg.PackageName, reg, a.log)
	units := em.EmitFile(filepath.Base(a.cfg.InFile), f)
	if a.cfg.OutFile != "" {
		for i := range units {
			units[i].Path = a.cfg.OutFile
		}
	}
	return a.writeUnits(ctx, a.cfg.PackagePath, units)
}

// runSingle parses a lone type or message definition and writes its block.
func (a *Assembler) runSingle(message bool) error {
	data, err := os.ReadFile(a.cfg.InFile)
	if err != nil {
		return fmt.Errorf("bindgen: read %s: %w", a.cfg.InFile, err)
	}
	em := NewEmitter(a.cfg.PackageName, make(EnumRegistry), a.log)
	var text []byte
	if message {
		m, err := load.ParseMessage(data)
		if err != nil {
			return err
		}
		text = em.EmitMessage(m)
	} else {
		t, err := load.ParseStructType(data)
		if err != nil {
			return err
		}
		text = em.EmitStructType(t)
	}
	out := filepath.Join(a.cfg.PackagePath, a.cfg.OutFile)
	if err := os.WriteFile(out, text, 0o644); err != nil {
		return &AssembleError{Op: "write", Path: out, Cause: err}
	}
	return nil
}

// runTree descends the input directory and runs the configured passes.
func (a *Assembler) runTree(ctx context.Context) error {
	tree, err := a.loader.LoadTree(a.cfg.InFile)
	if err != nil {
		return err
	}
	if a.cfg.PrintMessageNames {
		tree.Each(func(path string, f *load.File) {
			fmt.Fprintln(a.cfg.Out, path)
			for _, m := range f.Messages {
				fmt.Fprintln(a.cfg.Out, nameAndCrc(m))
			}
		})
	}
	// The registry covers the whole corpus before any field is mapped: a
	// field may reference an enum from a file emitted later.
	reg := BuildEnumRegistry(tree)
	em := NewEmitter(a.cfg.PackageName, reg, a.log)

	var units []Unit
	if a.cfg.GenerateCode {
		tree.Each(func(path string, f *load.File) {
			units = append(units, em.EmitFile(a.rel(path), f)...)
		})
	}
	if a.cfg.CreateBinding {
		units = append(units, a.bindingUnits(em, tree)...)
	}
	if err := a.writeUnits(ctx, a.cfg.PackagePath, units); err != nil {
		return err
	}
	if a.cfg.CreatePackage {
		return a.createPackage(ctx, tree, em)
	}
	return nil
}

// bindingUnits emits the corpus in binding order: types-only files sorted
// by declared import count, then the remaining files in load order.
func (a *Assembler) bindingUnits(em *Emitter, tree *load.Tree) []Unit {
	var units []Unit
	for _, tf := range orderByImports(collectTypesFiles(tree)) {
		a.log.Debug().Str("path", tf.path).Int("imports", len(tf.file.Imports)).Msg("types file")
		units = append(units, em.EmitFile(a.rel(tf.path), tf.file)...)
	}
	tree.Each(func(path string, f *load.File) {
		if !isTypesFile(path) {
			units = append(units, em.EmitFile(a.rel(path), f)...)
		}
	})
	return units
}

// rel strips the input root from a loaded path, so module names derive
// from corpus-relative locations.
func (a *Assembler) rel(path string) string {
	if r, err := filepath.Rel(a.cfg.InFile, path); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return filepath.ToSlash(path)
}

// writeUnits writes generated units under dir. The unit sequence is flat
// and ordered; later units targeting the same path overwrite earlier ones.
// Overwrites are resolved before the parallel fan-out so completion order
// cannot change the outcome. Any filesystem failure is fatal.
func (a *Assembler) writeUnits(ctx context.Context, dir string, units []Unit) error {
	if len(units) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &AssembleError{Op: "mkdir", Path: dir, Cause: err}
	}
	last := make(map[string]int, len(units))
	for i, u := range units {
		last[u.Path] = i
	}
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, u := range units {
		if last[u.Path] != i {
			continue
		}
		path := filepath.Join(dir, u.Path)
		text := u.Text
		eg.Go(func() error {
			if err := os.WriteFile(path, text, 0o644); err != nil {
				return &AssembleError{Op: "write", Path: path, Cause: err}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	a.log.Info().Int("units", len(last)).Str("dir", dir).Msg("wrote generated units")
	return nil
}
