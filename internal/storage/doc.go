// Package storage writes scrape results as JSON documents.
//
// Each job writes one file into the results directory, wrapping its records
// in a single key: {"courses": [...]} for the bulletin and {"events": [...]}
// for the calendar and athletics jobs. The directory is created on first
// write, and an existing file is replaced. Empty result sets are written as
// an empty array, never null.
package storage
