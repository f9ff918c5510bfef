// Package gen generates Go binding code from VPP binary-API definitions.
//
// The pipeline follows this flow:
//
//	.api.json corpus (compiler/load)
//	        ↓
//	EnumRegistry pre-pass (backing widths for every enum in the corpus)
//	        ↓
//	import-count ordering of *_types.api.json files
//	        ↓
//	Emitter (one generated unit per schema file)
//	        ↓
//	Assembler (binding layout, or full installable package scaffolding)
//
// Configuration uses the functional option pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithInput("./api"),
//	    gen.WithMode(gen.ModeTree),
//	    gen.WithCreateBinding(true),
//	)
//	if err != nil { ... }
//	err = gen.NewAssembler(cfg).Run(ctx)
//
// Generation is best-effort by design: a schema file that fails to parse
// is skipped with a diagnostic, and an unresolved enum width degrades to
// pass-through typing. Only filesystem failures abort a run.
//
// The import-count ordering of types files is a deliberate approximation
// of dependency ordering, kept bit-for-bit stable; see orderByImports.
package gen
