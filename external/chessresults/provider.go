package chessresults

import (
	"context"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/usecase"
)

// Provider adapts the chess-results client, validator and enricher to the
// import service's scraping boundary. The three collaborators share one
// Client so the page cache deduplicates validator and enricher fetches.
type Provider struct {
	client    *Client
	validator *Validator
	enricher  *Enricher
}

func NewProvider(client *Client) *Provider {
	return &Provider{
		client:    client,
		validator: NewValidator(client),
		enricher:  NewEnricher(client),
	}
}

func (p *Provider) FetchDetails(ctx context.Context, tournamentID string) (usecase.ScrapedDetails, error) {
	html, err := p.client.DetailsPage(ctx, tournamentID)
	if err != nil {
		return usecase.ScrapedDetails{}, err
	}
	details, err := ParseDetails(html)
	if err != nil {
		return usecase.ScrapedDetails{}, err
	}

	return usecase.ScrapedDetails{
		Rounds:      details.Rounds,
		RoundsFound: details.RoundsFound,
		StartDate:   details.StartDate,
		EndDate:     details.EndDate,
	}, nil
}

func (p *Provider) FetchStandings(ctx context.Context, tournamentID string, rounds int) (usecase.ScrapedTournament, error) {
	html, err := p.client.StandingsPage(ctx, tournamentID, rounds)
	if err != nil {
		return usecase.ScrapedTournament{}, err
	}
	parsed, err := Parse(html, tournamentID)
	if err != nil {
		return usecase.ScrapedTournament{}, err
	}

	rows := make([]usecase.ScrapedRow, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		rows = append(rows, usecase.ScrapedRow{
			Rank:       row.Rank,
			StartRank:  row.StartRank,
			Name:       row.Name,
			Federation: row.Federation,
			Sex:        row.Sex,
			Rating:     row.Rating,
			Points:     row.Points,
			TPR:        row.TPR,
		})
	}

	return usecase.ScrapedTournament{
		ID:        parsed.ID,
		Name:      parsed.Name,
		Rounds:    parsed.Rounds,
		StartDate: parsed.StartDate,
		EndDate:   parsed.EndDate,
		Rows:      rows,
		Warnings:  parsed.Warnings,
	}, nil
}

func (p *Provider) ClassifyResult(ctx context.Context, tournamentID string, startRank int) (result.Status, error) {
	return p.validator.Classify(ctx, tournamentID, startRank)
}

func (p *Provider) EnrichTournament(ctx context.Context, tournamentID string, startRanks []int) []usecase.ScrapeEnrichment {
	enrichments := p.enricher.EnrichTournament(ctx, tournamentID, startRanks)

	out := make([]usecase.ScrapeEnrichment, 0, len(enrichments))
	for _, e := range enrichments {
		out = append(out, usecase.ScrapeEnrichment{
			StartRank:   e.StartRank,
			FideID:      e.FideID,
			HasWalkover: e.HasWalkover,
			Err:         e.Err,
		})
	}

	return out
}
