// Package cli implements the command-line interface for seattle-events.
//
// The cli package provides the Cobra-based CLI with subcommands for each
// pipeline stage (links, details, load), a full run (scrape), and the
// dashboard server (serve). It wires together configuration, logging,
// the scraper and enrichment clients, snapshot storage, and the event
// store.
package cli
