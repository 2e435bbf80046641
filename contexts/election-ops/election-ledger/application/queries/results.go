package queries

import (
	"context"
	"sort"

	application "pericles/contexts/election-ops/election-ledger/application"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
)

// ElectionSummary is the dashboard view of the ledger.
type ElectionSummary struct {
	Phase          entities.ElectionPhase
	CandidateCount int
	VoterCount     int
	TotalVotes     int
}

// ResultsUseCase serves every read over the ledger. Reads take the handle's
// read lock, so they see a consistent snapshot but never block each other.
type ResultsUseCase struct {
	Handle *application.LedgerHandle
}

// Candidate returns the candidate record for a 1-based id.
func (uc ResultsUseCase) Candidate(_ context.Context, candidateID int) (entities.Candidate, error) {
	var candidate entities.Candidate
	err := uc.Handle.Read(func(ledger *entities.Ledger) error {
		found, err := ledger.Candidate(candidateID)
		if err != nil {
			return err
		}
		candidate = found
		return nil
	})
	return candidate, err
}

// Results returns the live tally for a candidate. It is readable in any
// phase, including mid-election.
func (uc ResultsUseCase) Results(ctx context.Context, candidateID int) (int, error) {
	candidate, err := uc.Candidate(ctx, candidateID)
	if err != nil {
		return 0, err
	}
	return candidate.Votes, nil
}

// Winner returns the maximum-tally candidate once the election has ended,
// ties broken by lowest id.
func (uc ResultsUseCase) Winner(_ context.Context) (entities.Candidate, error) {
	var winner entities.Candidate
	err := uc.Handle.Read(func(ledger *entities.Ledger) error {
		found, err := ledger.Winner()
		if err != nil {
			return err
		}
		winner = found
		return nil
	})
	return winner, err
}

// VoterProfile returns the voter record for an identity; unregistered
// identities yield the zero-valued record.
func (uc ResultsUseCase) VoterProfile(_ context.Context, identity entities.Identity) entities.Voter {
	var voter entities.Voter
	_ = uc.Handle.Read(func(ledger *entities.Ledger) error {
		voter = ledger.VoterProfile(identity)
		return nil
	})
	return voter
}

// TallyBoard lists every candidate ranked by tally, highest first, ids
// ascending within a tie.
func (uc ResultsUseCase) TallyBoard(_ context.Context) []entities.Candidate {
	var board []entities.Candidate
	_ = uc.Handle.Read(func(ledger *entities.Ledger) error {
		board = ledger.Candidates()
		return nil
	})
	sort.Slice(board, func(i, j int) bool {
		if board[i].Votes == board[j].Votes {
			return board[i].ID < board[j].ID
		}
		return board[i].Votes > board[j].Votes
	})
	return board
}

// Summary reports phase and aggregate counts for dashboards.
func (uc ResultsUseCase) Summary(_ context.Context) ElectionSummary {
	var summary ElectionSummary
	_ = uc.Handle.Read(func(ledger *entities.Ledger) error {
		summary.Phase = ledger.Phase()
		summary.CandidateCount = ledger.CandidateCount()
		summary.VoterCount = ledger.VoterCount()
		for _, candidate := range ledger.Candidates() {
			summary.TotalVotes += candidate.Votes
		}
		return nil
	})
	return summary
}
