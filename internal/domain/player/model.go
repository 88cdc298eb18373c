package player

import (
	"fmt"
	"strings"
)

// Player is a tracked competitor. FideID is nil until an import or enrichment
// discovers one; once set it is never cleared by later imports.
type Player struct {
	ID         int64
	FideID     *int64
	Name       string
	Federation string
	Sex        *string
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Federation != "" && len(p.Federation) != 3 {
		return fmt.Errorf("invalid player federation: %s", p.Federation)
	}
	if p.FideID != nil && *p.FideID <= 0 {
		return fmt.Errorf("invalid fide id: %d", *p.FideID)
	}

	return nil
}
