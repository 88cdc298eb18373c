package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/walela/gp/external/chessresults"
	"github.com/walela/gp/internal/config"
	"github.com/walela/gp/internal/infrastructure/repository/postgres"
	"github.com/walela/gp/internal/interfaces/httpapi"
	"github.com/walela/gp/internal/platform/cache"
	"github.com/walela/gp/internal/platform/logging"
	"github.com/walela/gp/internal/platform/resilience"
	"github.com/walela/gp/internal/usecase"
)

// Services bundles the wired use cases so the HTTP server and the scrape CLI
// share one composition root.
type Services struct {
	Tournaments *usecase.TournamentService
	Players     *usecase.PlayerService
	Rankings    *usecase.RankingService
	Import      *usecase.ImportService

	db *sqlx.DB
}

func (s *Services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func BuildServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	playerRepo := postgres.NewPlayerRepository(db)
	tournamentRepo := postgres.NewTournamentRepository(db)
	resultRepo := postgres.NewResultRepository(db)
	rankingRepo := postgres.NewRankingRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)

	var pageCache *cache.Store
	if cfg.PageCacheEnabled {
		pageCache = cache.NewStore(cfg.PageCacheTTL)
	}
	client := chessresults.NewClient(chessresults.ClientConfig{
		Mirrors: cfg.ChessResultsMirrors,
		Timeout: cfg.ChessResultsTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ChessResultsCircuitEnabled,
			FailureThreshold: cfg.ChessResultsCircuitFailureCount,
			OpenTimeout:      cfg.ChessResultsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ChessResultsCircuitHalfOpenMaxReq,
		},
		PageCache: pageCache,
	})
	provider := chessresults.NewProvider(client)

	identity := usecase.NewIdentityResolver(playerRepo, logger)
	importService := usecase.NewImportService(usecase.ImportServiceConfig{
		Provider:      provider,
		Identity:      identity,
		Tournaments:   tournamentRepo,
		Seasons:       seasonRepo,
		Logger:        logger,
		InferRounds:   chessresults.InferRounds,
		InferLocation: chessresults.InferLocation,
	})

	return &Services{
		Tournaments: usecase.NewTournamentService(tournamentRepo, resultRepo),
		Players:     usecase.NewPlayerService(playerRepo, resultRepo),
		Rankings:    usecase.NewRankingService(resultRepo, rankingRepo, cfg.HomeFederation, logger),
		Import:      importService,
		db:          db,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, *Services, error) {
	services, err := BuildServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		services.Tournaments,
		services.Players,
		services.Rankings,
		services.Import,
		cfg.DefaultSeasonID,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		services.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, services, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	return otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithDBSystem("postgresql"),
	)
}
