// Package electionledger implements the single-authority election inside the
// election-ops context.
//
// The module owns the election lifecycle (candidate/voter enrollment, phase
// transitions, one vote or one delegation per registered voter) and the vote
// tally it derives results from. Business rules live in the domain aggregate
// and application layers; infrastructure stays behind ports and adapters, and
// every accepted mutation produces exactly one notification through the
// outbox.
package electionledger
