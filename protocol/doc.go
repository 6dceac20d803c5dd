// Package protocol implements the anonymized quadratic voting round: a
// multi-party protocol in which voters sequentially perturb a shared slot
// array with additive, key-derived pseudorandom noise so that no single
// party, the tally-taker included, can associate a ballot with a voter.
//
// # Roles and flow
//
// A round has three roles:
//
//  1. Pollmaker-Init: Start seeds a fresh VoteHolder of N slots with noise
//     derived from the pollmaker's private key and hands the AnonymizingPoll
//     to the first voter.
//
//  2. Voter-Turn: each voter in strict sequence calls Cast, which validates
//     their vote, adds their own key-derived noise chain to every slot, adds
//     the encoded ballot to one uniformly chosen slot, records an Insurance
//     commitment and a position-randomized pseudonymous Signature, and hands
//     the updated poll to the next party. The voter's key travels to the
//     pollmaker on a channel disjoint from the poll's path.
//
//  3. Pollmaker-Tally: once the poll and every key have arrived,
//     TallyAnonymous subtracts every key's chain from every slot, checks the
//     non-zero slot count against the signature count, decodes the residual
//     ballots, and re-validates and tallies them.
//
// # Ownership
//
// An AnonymizingPoll is a single-owner value: each turn consumes the previous
// poll and produces a new one, with no shared mutable state across parties.
// Cast never mutates its input; a failed turn emits nothing.
//
// # Guarantees and limits
//
// Anonymity holds provided the pollmaker does not collude with every voter
// and keys travel out of band. Slot collisions are detected (two ballots
// landing in one slot changes the non-zero slot count), not prevented; the
// only recovery is re-running the round with fresh keys or more slots. Two
// ballots that cancel to zero by coincidence evade the check; the reference
// design accepts this gap and so does this implementation.
package protocol
