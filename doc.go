// Package moneyclip implements a personal bookkeeping engine: cash
// accounts with an append-only multi-currency transaction ledger,
// date-aware FX conversion against a stored rate history, envelope
// budgeting per category and month, and FIFO capital gains over tradable
// asset lots.
//
// All monetary math is exact decimal. Conversions resolve the direct pair,
// then the inverse, then triangulate through the configured base currency,
// and round half-even exactly once at the final step. Every figure the
// engine reports is derived on demand from stored observations, so
// backfilling a missing rate corrects history without replaying anything.
package moneyclip
