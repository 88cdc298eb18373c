package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/walela/gp/internal/app"
	"github.com/walela/gp/internal/config"
	"github.com/walela/gp/internal/platform/logging"
	"github.com/walela/gp/internal/usecase"
)

func main() {
	var (
		tournaments = flag.String("tournaments", "", "comma-separated chess-results tournament ids to import")
		seasonID    = flag.String("season", "", "season id (defaults to DEFAULT_SEASON_ID)")
		workers     = flag.Int("workers", 0, "parallel tournament imports (default from IMPORT_MAX_WORKERS)")
		skipEnrich  = flag.Bool("skip-enrich", false, "skip per-player fide id and walkover enrichment")
		recalculate = flag.Bool("recalculate", false, "recalculate season rankings (after any import)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer logger.Sync()

	season := strings.TrimSpace(*seasonID)
	if season == "" {
		season = cfg.DefaultSeasonID
	}
	ids := splitIDs(*tournaments)
	if len(ids) == 0 && !*recalculate {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -tournaments and/or -recalculate")
		flag.Usage()
		os.Exit(2)
	}

	services, err := app.BuildServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	maxWorkers := *workers
	if maxWorkers <= 0 {
		maxWorkers = cfg.ImportMaxWorkers
	}

	exitCode := 0
	if len(ids) > 0 {
		out, err := services.Import.Import(ctx, usecase.ImportInput{
			TournamentIDs:  ids,
			SeasonID:       season,
			MaxWorkers:     maxWorkers,
			SkipEnrichment: *skipEnrich,
		})
		if err != nil {
			logger.Error("import failed", "season_id", season, "error", err)
			os.Exit(1)
		}
		for _, task := range out.Tasks {
			logger.Info("import task finished",
				"tournament_id", task.TournamentID,
				"name", task.Name,
				"status", task.Status,
				"rows", task.Rows,
				"duration_ms", task.DurationMs,
				"message", task.Message,
			)
		}
		logger.Info("import finished",
			"season_id", season,
			"tasks", out.TaskCount,
			"success", out.SuccessCount,
			"failed", out.FailedCount,
			"workers", out.WorkerCount,
		)
		if out.FailedCount > 0 {
			exitCode = 1
		}
	}

	if *recalculate {
		out, err := services.Rankings.Recalculate(ctx, season)
		if err != nil {
			logger.Error("recalculation failed", "season_id", season, "error", err)
			os.Exit(1)
		}
		logger.Info("rankings recalculated",
			"season_id", out.SeasonID,
			"players", out.PlayersRanked,
			"results", out.ResultsUsed,
		)
	}

	os.Exit(exitCode)
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
