package gen

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/vppapi/bindgen/compiler/load"
)

//go:embed templates
var templateFS embed.FS

// packageNameToken is replaced by the destination package name when a
// template skeleton is instantiated.
const packageNameToken = "__PACKAGE_NAME__"

// createPackage scaffolds an installable binding package:
//
//	<dest>/<name>/go.mod          manifest with the verbatim dep spec
//	<dest>/<name>/src/*           ordered binding units + entry module
//	<dest>/<name>/tests/*         integration test skeleton
//	<dest>/<name>/examples/*      usage example skeleton
//
// Any directory or file failure aborts the whole assembly.
func (a *Assembler) createPackage(ctx context.Context, tree *load.Tree, em *Emitter) error {
	root := filepath.Join(a.cfg.PackagePath, a.cfg.PackageName)
	srcDir := filepath.Join(root, "src")
	for _, dir := range []string{root, srcDir, filepath.Join(root, "tests"), filepath.Join(root, "examples")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &AssembleError{Op: "mkdir", Path: dir, Cause: err}
		}
	}
	lib, err := a.entryModule(tree)
	if err != nil {
		return err
	}
	libPath := filepath.Join(srcDir, a.cfg.PackageName+".go")
	if err := os.WriteFile(libPath, lib, 0o644); err != nil {
		return &AssembleError{Op: "write", Path: libPath, Cause: err}
	}
	manifestPath := filepath.Join(root, "go.mod")
	if err := os.WriteFile(manifestPath, a.manifest(), 0o644); err != nil {
		return &AssembleError{Op: "write", Path: manifestPath, Cause: err}
	}
	if err := a.instantiateTemplate("templates/interface_test.go.tmpl", filepath.Join(root, "tests", "interface_test.go")); err != nil {
		return err
	}
	if err := a.instantiateTemplate("templates/progressive_example.go.tmpl", filepath.Join(root, "examples", "progressive_vpp.go")); err != nil {
		return err
	}
	return a.writeUnits(ctx, srcDir, a.bindingUnits(em, tree))
}

// entryModule builds the aggregating module re-exporting every per-file
// generated module by its derived name.
func (a *Assembler) entryModule(tree *load.Tree) ([]byte, error) {
	f := jen.NewFile(a.cfg.PackageName)
	f.HeaderComment("Code generated by bindgen. DO NOT EDIT.")

	sources := jen.Dict{}
	tree.Each(func(path string, _ *load.File) {
		sources[jen.Lit(ModuleName(a.rel(path)))] = jen.Lit(a.rel(path))
	})
	f.Comment("SourceFiles maps each generated module name to the schema file it was")
	f.Comment("generated from.")
	f.Var().Id("SourceFiles").Op("=").Map(jen.String()).String().Values(sources)
	f.Line()

	f.Comment("AllMessages lists one value of every message type in the binding, in")
	f.Comment("generation order, for transport-side registration.")
	body := []jen.Code{
		jen.Id("out").Op(":=").Index().Qual(apiPkgPath, "Message").Values(),
	}
	tree.Each(func(path string, _ *load.File) {
		body = append(body, jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id(ModuleName(a.rel(path))+"Messages").Call().Op("...")))
	})
	body = append(body, jen.Return(jen.Id("out")))
	f.Func().Id("AllMessages").Params().Index().Qual(apiPkgPath, "Message").Block(body...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("bindgen: render entry module: %w", err)
	}
	return buf.Bytes(), nil
}

// manifest renders the generated package manifest. The dependency spec is
// opaque text inserted verbatim.
func (a *Assembler) manifest() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n\ngo 1.24\n\nrequire (\n\t%s\n)\n", a.cfg.PackageName, a.cfg.DepSpec)
	return []byte(b.String())
}

// instantiateTemplate copies an embedded skeleton into the new package,
// substituting the destination package name. This is literal substitution,
// not template execution.
func (a *Assembler) instantiateTemplate(name, dst string) error {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("bindgen: embedded template %s: %w", name, err)
	}
	out := strings.ReplaceAll(string(data), packageNameToken, a.cfg.PackageName)
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return &AssembleError{Op: "write", Path: dst, Cause: err}
	}
	return nil
}
