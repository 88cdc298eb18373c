package chessresults

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/walela/gp/internal/domain/result"
)

// IsForfeitCell reports whether a round result cell records a game that was
// not actually played: forfeit wins "+", forfeit losses "-", and the bye
// marker "K". Declared as a variable so the predicate can be swapped when the
// site changes its notation.
var IsForfeitCell = func(cell string) bool {
	return strings.Contains(cell, "+") || strings.Contains(cell, "-") || strings.Contains(cell, "K")
}

// Validator classifies a player's tournament result by inspecting their
// round-by-round card.
type Validator struct {
	client *Client
}

func NewValidator(client *Client) *Validator {
	return &Validator{client: client}
}

// Classify fetches the player's page and derives a result status. A fetch or
// parse failure yields StatusUnknown with the underlying error; ambiguity is
// never promoted to a harsher status.
func (v *Validator) Classify(ctx context.Context, tournamentID string, startRank int) (result.Status, error) {
	html, err := v.client.PlayerPage(ctx, tournamentID, startRank)
	if err != nil {
		return result.StatusUnknown, err
	}

	games, tableText, err := playerGameResults(html)
	if err != nil {
		return result.StatusUnknown, err
	}

	return classifyGames(games, tableText), nil
}

func classifyGames(games []string, tableText string) result.Status {
	for _, g := range games {
		if IsForfeitCell(g) {
			return result.StatusWalkover
		}
	}
	if strings.Contains(tableText, "not paired") {
		return result.StatusIncomplete
	}
	if strings.Contains(strings.ToLower(tableText), "withdrawn") {
		return result.StatusWithdrawn
	}
	return result.StatusValid
}

// playerGameResults finds the rounds table on a player page (the CRs1 table
// whose header mentions "Rd.") and returns its per-round result cells plus
// the table's full text.
func playerGameResults(html string) ([]string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", err
	}

	var games []string
	var tableText string
	doc.Find("table." + standingsTableClass).EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if !strings.Contains(table.Text(), "Rd.") {
			return true
		}
		tableText = strings.TrimSpace(table.Text())

		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := tr.Find("td")
			if cells.Length() >= 3 {
				games = append(games, strings.TrimSpace(cells.Eq(2).Text()))
			}
		})
		return false
	})

	return games, tableText, nil
}
