package httpadapter

import (
	"context"
	"log/slog"

	"pericles/contexts/election-ops/election-ledger/application/commands"
	"pericles/contexts/election-ops/election-ledger/application/queries"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
	httptransport "pericles/contexts/election-ops/election-ledger/transport/http"
)

// Handler maps the verified caller identity and transport DTOs onto ledger
// commands and queries. Authentication happened upstream; the identity here
// is trusted input.
type Handler struct {
	Ledger  commands.LedgerUseCase
	Results queries.ResultsUseCase
	Logger  *slog.Logger
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	caller string,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Ledger.AddCandidate(ctx, commands.AddCandidateCommand{
		Caller:   entities.Identity(caller),
		Name:     req.Name,
		Proposal: req.Proposal,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	caller string,
	req httptransport.RegisterVoterRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Ledger.RegisterVoter(ctx, commands.RegisterVoterCommand{
		Caller:  entities.Identity(caller),
		Address: entities.Identity(req.Address),
		Name:    req.Name,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) StartElectionHandler(ctx context.Context, caller string) error {
	return h.Ledger.StartElection(ctx, entities.Identity(caller))
}

func (h Handler) EndElectionHandler(ctx context.Context, caller string) error {
	return h.Ledger.EndElection(ctx, entities.Identity(caller))
}

func (h Handler) DelegateVoteHandler(
	ctx context.Context,
	caller string,
	req httptransport.DelegateVoteRequest,
) error {
	return h.Ledger.DelegateVote(ctx, commands.DelegateVoteCommand{
		Delegator: entities.Identity(caller),
		Delegatee: entities.Identity(req.Delegatee),
	})
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	caller string,
	req httptransport.CastVoteRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Ledger.CastVote(ctx, commands.CastVoteCommand{
		Voter:       entities.Identity(caller),
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) GetCandidateHandler(ctx context.Context, candidateID int) (httptransport.CandidateResponse, error) {
	candidate, err := h.Results.Candidate(ctx, candidateID)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) ResultsHandler(ctx context.Context, candidateID int) (httptransport.ResultsResponse, error) {
	votes, err := h.Results.Results(ctx, candidateID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	return httptransport.ResultsResponse{
		CandidateID: candidateID,
		Votes:       votes,
	}, nil
}

func (h Handler) WinnerHandler(ctx context.Context) (httptransport.CandidateResponse, error) {
	winner, err := h.Results.Winner(ctx)
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(winner), nil
}

func (h Handler) VoterProfileHandler(ctx context.Context, address string) httptransport.VoterResponse {
	voter := h.Results.VoterProfile(ctx, entities.Identity(address))
	resp := voterResponse(voter)
	// Unregistered identities come back zero-valued; echo the queried address
	// so the response is self-describing.
	if resp.Address == "" {
		resp.Address = address
	}
	return resp
}

func (h Handler) TallyBoardHandler(ctx context.Context) httptransport.TallyBoardResponse {
	board := h.Results.TallyBoard(ctx)
	items := make([]httptransport.TallyBoardItem, 0, len(board))
	for rank, candidate := range board {
		items = append(items, httptransport.TallyBoardItem{
			ID:    candidate.ID,
			Name:  candidate.Name,
			Votes: candidate.Votes,
			Rank:  rank + 1,
		})
	}
	return httptransport.TallyBoardResponse{Items: items}
}

func (h Handler) SummaryHandler(ctx context.Context) httptransport.SummaryResponse {
	summary := h.Results.Summary(ctx)
	return httptransport.SummaryResponse{
		Phase:          summary.Phase.String(),
		CandidateCount: summary.CandidateCount,
		VoterCount:     summary.VoterCount,
		TotalVotes:     summary.TotalVotes,
	}
}

func candidateResponse(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ID:       candidate.ID,
		Name:     candidate.Name,
		Proposal: candidate.Proposal,
		Votes:    candidate.Votes,
	}
}

func voterResponse(voter entities.Voter) httptransport.VoterResponse {
	return httptransport.VoterResponse{
		Address:      string(voter.Address),
		Name:         voter.Name,
		VotedFor:     voter.VotedFor,
		HasDelegated: voter.HasDelegated,
		Delegate:     string(voter.Delegate),
	}
}
