package tournament

import (
	"fmt"
	"strings"
	"time"
)

// DefaultRounds is assumed when no page signal reveals the round count.
const DefaultRounds = 6

// Tournament is one chess-results.com event. ID is the site's numeric
// tournament id, kept as text because it is an external key we never do
// arithmetic on.
type Tournament struct {
	ID        string
	Name      string
	ShortName *string
	Location  *string
	Rounds    int
	StartDate *time.Time
	EndDate   *time.Time
	SeasonID  string
}

func (t Tournament) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.Rounds <= 0 {
		return fmt.Errorf("tournament rounds must be positive")
	}

	return nil
}
