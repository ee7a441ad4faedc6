// Package files finds the workbooks an ingest run reads.
//
// Discovery resolves paths against a base directory. ResolveInputs accepts
// either a single workbook or a directory; directories are scanned one level
// deep and their workbooks returned in name order so repeated runs ingest in
// the same sequence.
package files
