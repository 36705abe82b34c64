// Package manifest works with Cargo.toml content on behalf of the CLI. It
// validates extracted dev-dependency declarations against an embedded JSON
// schema and synthesizes the manifest of a standalone test project that
// depends on the host crate plus the host's dev-dependencies.
package manifest
