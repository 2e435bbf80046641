package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Proposal string `json:"proposal"`
}

type CandidateResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Proposal string `json:"proposal"`
	Votes    int    `json:"votes"`
}

type RegisterVoterRequest struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type VoterResponse struct {
	Address      string `json:"address"`
	Name         string `json:"name,omitempty"`
	VotedFor     int    `json:"voted_for"`
	HasDelegated bool   `json:"has_delegated"`
	Delegate     string `json:"delegate,omitempty"`
}

type DelegateVoteRequest struct {
	Delegatee string `json:"delegatee"`
}

type CastVoteRequest struct {
	CandidateID int `json:"candidate_id"`
}

type ResultsResponse struct {
	CandidateID int `json:"candidate_id"`
	Votes       int `json:"votes"`
}

type TallyBoardItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Votes int    `json:"votes"`
	Rank  int    `json:"rank"`
}

type TallyBoardResponse struct {
	Items []TallyBoardItem `json:"items"`
}

type SummaryResponse struct {
	Phase          string `json:"phase"`
	CandidateCount int    `json:"candidate_count"`
	VoterCount     int    `json:"voter_count"`
	TotalVotes     int    `json:"total_votes"`
}
