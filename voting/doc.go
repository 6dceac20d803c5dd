// Package voting implements the non-anonymous core of quadratic voting:
// polls, votes, ballot validation, tallying, and the ballot integer codec.
//
// Quadratic voting lets a voter express preference intensity: casting n votes
// for one option costs n² credits out of a fixed per-voter budget. The
// validator enforces the budget and option membership; the tally engine
// aggregates validated vote batches into per-option totals.
//
// The same validator and tally engine are reused by the anonymization
// protocol (package protocol) once masked ballots have been recovered, so a
// corrupted recovery surfaces as a validation error rather than a skewed
// result.
package voting
