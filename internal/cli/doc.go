// Package cli defines the Cobra command tree for the trybuild CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// internal packages for extraction, validation, and manifest generation and
// only handle flag parsing and output formatting.
package cli
