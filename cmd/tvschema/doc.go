// Package main hosts the tvschema CLI entrypoint and command graph.
//
// The Cobra command tree wraps the classification build, the stored run
// history, preflight checks and configuration scaffolding. Configuration and
// logging are resolved once per invocation in commandContext so subcommands
// only deal with presentation.
//
// Keep this package lean: decision logic belongs in internal/classify and
// internal/derive, orchestration in internal/build.
package main
