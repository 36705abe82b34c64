// Package dependencies extracts the [dev-dependencies] table of a Cargo.toml
// manifest. Declarations are decoded from either a bare version string or a
// table, unknown table keys are carried through untouched, and relative path
// declarations are anchored at the manifest's directory so the result can be
// copied into a manifest generated somewhere else.
package dependencies
