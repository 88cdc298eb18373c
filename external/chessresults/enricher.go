package chessresults

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/walela/gp/internal/domain/result"
)

var (
	fideProfileRegex = regexp.MustCompile(`profile/(\d+)`)
	fideInlineRegex  = regexp.MustCompile(`(?i)fide[- ]id:?\s*(\d{5,})`)
	digitsOnlyRegex  = regexp.MustCompile(`^\d+$`)
)

// Enricher fills in data the standings table lacks, one player page at a
// time. Requests are serial on purpose: the pages come from a volunteer-run
// site and the batch is small.
type Enricher struct {
	client *Client
}

func NewEnricher(client *Client) *Enricher {
	return &Enricher{client: client}
}

// EnrichTournament visits each start rank's player page and extracts a FIDE
// id and walkover flag where present. Per-entry failures are captured on the
// entry; cancellation stops further requests and returns what was gathered.
func (e *Enricher) EnrichTournament(ctx context.Context, tournamentID string, startRanks []int) []Enrichment {
	out := make([]Enrichment, 0, len(startRanks))
	for _, snr := range startRanks {
		if err := ctx.Err(); err != nil {
			return out
		}

		entry := Enrichment{StartRank: snr}
		html, err := e.client.PlayerPage(ctx, tournamentID, snr)
		if err != nil {
			entry.Err = err
			out = append(out, entry)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			entry.Err = err
			out = append(out, entry)
			continue
		}

		if fideID := extractFideID(doc); fideID > 0 {
			entry.FideID = &fideID
		}
		if games, tableText, err := playerGameResults(html); err == nil && tableText != "" {
			walkover := classifyGames(games, tableText) == result.StatusWalkover
			entry.HasWalkover = &walkover
		}

		out = append(out, entry)
	}

	return out
}

// extractFideID tries the known placements in order: a ratings.fide.com
// profile link, the link's own text, the cell following a "Fide-ID" label,
// and finally an inline "FIDE-ID: N" anywhere in the page text. Absence is
// normal for unrated players.
func extractFideID(doc *goquery.Document) int64 {
	var id int64

	doc.Find("a[href*='ratings.fide.com']").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if m := fideProfileRegex.FindStringSubmatch(href); m != nil {
			id = parseFideID(m[1])
			return id == 0
		}
		text := strings.TrimSpace(link.Text())
		if digitsOnlyRegex.MatchString(text) {
			id = parseFideID(text)
			return id == 0
		}
		return true
	})
	if id > 0 {
		return id
	}

	doc.Find("td").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(cell.Text()), "fide-id") {
			return true
		}
		sibling := strings.TrimSpace(cell.Next().Text())
		if digitsOnlyRegex.MatchString(sibling) {
			id = parseFideID(sibling)
			return id == 0
		}
		return true
	})
	if id > 0 {
		return id
	}

	if m := fideInlineRegex.FindStringSubmatch(doc.Text()); m != nil {
		return parseFideID(m[1])
	}
	return 0
}

func parseFideID(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
