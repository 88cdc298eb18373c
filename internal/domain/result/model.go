package result

import "fmt"

// Status classifies how trustworthy a player's final standing is for ranking
// purposes. Unknown means the round-by-round page could not be inspected.
type Status string

const (
	StatusValid      Status = "valid"
	StatusWalkover   Status = "walkover"
	StatusIncomplete Status = "incomplete"
	StatusWithdrawn  Status = "withdrawn"
	StatusUnknown    Status = "unknown"
)

var AllStatuses = map[Status]struct{}{
	StatusValid:      {},
	StatusWalkover:   {},
	StatusIncomplete: {},
	StatusWithdrawn:  {},
	StatusUnknown:    {},
}

// CountsForRanking reports whether a result with this status feeds the
// ranking engine. Unknown counts: ambiguity is never escalated to exclusion.
func (s Status) CountsForRanking() bool {
	return s == StatusValid || s == StatusUnknown || s == ""
}

// Result is one player's final standing in one tournament.
type Result struct {
	TournamentID string
	PlayerID     int64
	Rank         int
	StartRank    int
	Rating       int
	Points       float64
	TPR          *int
	HasWalkover  *bool
	Status       Status
}

func (r Result) Validate() error {
	if r.TournamentID == "" {
		return fmt.Errorf("result tournament id is required")
	}
	if r.PlayerID <= 0 {
		return fmt.Errorf("result player id is required")
	}
	if r.Rank <= 0 {
		return fmt.Errorf("result rank must be positive")
	}
	if r.Status != "" {
		if _, ok := AllStatuses[r.Status]; !ok {
			return fmt.Errorf("invalid result status: %s", r.Status)
		}
	}

	return nil
}
