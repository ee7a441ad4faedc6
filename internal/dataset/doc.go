// Package dataset stores normalized trials in a single msgpack container so
// that analysis can run without re-reading workbooks.
//
// The container holds a format version, the trial order and, per trial, the
// marker names, one sample column per marker name and the time vector. NaN
// samples are stored as-is.
package dataset
