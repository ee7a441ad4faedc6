// Package validation holds the file preflight checks the commands run before
// starting work, so a bad input or an unwritable output fails fast with a
// typed error instead of midway through a run.
package validation
