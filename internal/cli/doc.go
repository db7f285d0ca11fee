// Package cli implements the command-line interface for du-scrape.
//
// The cli package provides the Cobra-based CLI with one subcommand per
// scrape job (bulletin, calendar, athletics) and an "all" command running
// them in sequence. It layers flags over the environment-backed config,
// wires the scraper to the results storage, and reports a run summary as
// text or JSON.
package cli
