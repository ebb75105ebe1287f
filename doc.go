// File: doc.go

// Package config is a read-only configuration facade: it loads a TOML
// file once, overlays operating-system environment variables on top,
// coerces values against declared type specs, and exposes the result
// through reusable property bindings.
//
// Features:
//   - Dot-separated key paths into nested TOML tables
//   - Closed-variant TypeSpecs (string, int, float, bool, duration,
//     uuid, enum, union, list, table) applied identically to file and
//     environment values
//   - Deterministic env name derivation (dots to underscores,
//     upper-case, wildcard to ASTERISK), whole-list and per-element
//     list overrides
//   - Property and object-property bindings with defaults and an
//     optional per-instance populate-once cache
//   - mapstructure decoding of tables into structs, with duration,
//     slice, and UUID hooks
//
// Quick start:
//
//	cfg, err := config.FromPath("app.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var debug = config.MustProperty("web.debug", config.Bool(),
//	    config.Default(false), config.Cached())
//
//	on, err := debug.Value(cfg) // WEB_DEBUG wins over [web] debug
//
// Value precedence (highest to lowest):
//  1. Environment variable (WEB_DEBUG=true)
//  2. TOML value ([web] debug = true)
//  3. Declared default
//  4. ErrKeyNotFound
//
// The tree is immutable after construction. There is no reload, no
// watching, and no write-back; the per-instance cache is the only
// mutable state and is synchronized internally.
package config
