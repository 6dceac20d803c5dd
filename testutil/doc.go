// Package testutil provides shared fixtures for testing the voting core and
// the anonymization protocol: a sample poll, sample vote batches with known
// totals, and customizable protocol configurations.
//
// This package is intended for testing purposes only and should not be used
// in production code.
package testutil
