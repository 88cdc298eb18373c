package season

import (
	"fmt"
	"time"
)

// Season is one Grand Prix cycle, e.g. "gp-2025".
type Season struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("season end date precedes start date")
	}

	return nil
}
