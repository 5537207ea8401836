package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"basequiz-service/internal/app"
	"basequiz-service/internal/config"
	"basequiz-service/internal/infra/memory"
	pgstore "basequiz-service/internal/infra/postgres"
	rediscache "basequiz-service/internal/infra/redis"
	"basequiz-service/internal/logger"
	"basequiz-service/internal/metrics"
	"basequiz-service/internal/quiz"
	transport "basequiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// gameStore is a GameRepository that can drop idle games.
type gameStore interface {
	app.GameRepository
	Prune(now time.Time, maxIdle time.Duration) int
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New("basequiz", cfg.Log.Level, cfg.Log.Format)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var rankings app.RankingRepository = memory.NewRankingStore()
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		rankings = pgstore.NewRankingStore(pool)
	}
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 30*time.Second)
		rankings = rediscache.NewRankingCache(rankings, redisClient, cacheTTL, log)
	}

	games, sessionTTL := newGameStore(cfg, redisClient)

	m := metrics.New()
	feed := app.NewRankingFeed()
	leaderboard := app.NewLeaderboardService(rankings,
		app.WithFeed(feed),
		app.WithLogger(log),
		app.WithRecorder(m),
		app.WithMaxNameLength(cfg.Leaderboard.MaxNameLength),
		app.WithPageSize(cfg.Leaderboard.PageSize),
	)
	gameService := app.NewGameService(games, quiz.NewGenerator(), leaderboard,
		app.WithTimeLimit(config.TTLDuration(cfg.Game.TimeAttackLimit, app.DefaultTimeLimit)),
		app.WithGameLogger(log),
		app.WithGameRecorder(m),
	)

	router := transport.NewRouter(
		transport.NewAPIHandler(gameService, leaderboard, log),
		transport.NewWSHandler(leaderboard, feed, log),
		m, log,
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go pruneGames(pruneCtx, games, sessionTTL, log)

	go func() {
		log.WithField("port", finalPort).Info("starting quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newGameStore picks the game store. game.session_ttl is both the Redis
// liveness TTL and the idle limit used by pruneGames.
func newGameStore(cfg config.Config, client *redis.Client) (gameStore, time.Duration) {
	sessionTTL := config.TTLDuration(cfg.Game.SessionTTL, 30*time.Minute)
	if client != nil {
		return rediscache.NewSessionStore(client, sessionTTL), sessionTTL
	}
	return memory.NewSessionStore(), sessionTTL
}

func pruneGames(ctx context.Context, games gameStore, maxIdle time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := games.Prune(now, maxIdle); n > 0 {
				log.WithField("games", n).Debug("pruned idle games")
			}
		}
	}
}
