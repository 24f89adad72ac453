// Package config implements layered configuration resolution for the
// Arcella runtime.
//
// This package manages:
//   - Flattening TOML documents to dotted keys with per-file provenance
//   - Recursive, cycle-safe resolution of `includes` directives
//   - Priority-layered merging over the built-in default schema, with
//     explicit redefinition grants (`#redef`)
//   - First-start seeding of the config directory from an embedded template
//
// Error Philosophy:
//   - Fatal: an unreadable resolved file, malformed TOML, or a value type
//     the model cannot represent (date-times)
//   - Everything else (missing includes, cycles, depth limits, rejected
//     overrides) accumulates as warnings on the Resolved view, emitted once
//     the process logger exists
//
// Usage:
//
//	cfg, resolved, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ModulesDir)
//	level, _ := resolved.Get("arcella.log.level")
package config
