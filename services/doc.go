// Package services provides the HTTP-facing layer of the anonymized voting
// system: the pollmaker service that runs a round end to end, the voter
// service that executes a single turn and forwards the poll, persistence for
// published outcomes and voter-side receipts, and an in-process orchestrator
// for demos and tests.
//
// The services enforce the protocol's transport discipline: the
// AnonymizingPoll travels party to party in strict sequence, while each
// voter's key is submitted directly to the pollmaker on a separate request,
// never alongside the poll.
package services
