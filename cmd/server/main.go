package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"resq-server/internal/agent"
	"resq-server/internal/config"
	"resq-server/internal/handoff"
	"resq-server/internal/interaction"
	"resq-server/internal/metrics"
	"resq-server/internal/platform/telegram"
	"resq-server/internal/protocol"
	"resq-server/internal/resources"
	"resq-server/internal/risk"
	"resq-server/internal/session"
	"resq-server/internal/simulation"
	"resq-server/internal/triage"
	"resq-server/internal/units"
)

func main() {
	root := &cobra.Command{
		Use:   "resq-server",
		Short: "EMS clinical decision support server",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger zerolog.Logger) error {
	// Storage: Postgres when configured, otherwise in-memory with a
	// warning. Sessions are rebuildable state; the server must come up
	// either way.
	var store session.Store = session.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := openDatabase(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("database unavailable, falling back to in-memory session store")
		} else {
			if err := runMigrations(cfg.DatabaseURL); err != nil {
				logger.Warn().Err(err).Msg("migrations failed")
			}
			store = session.NewPostgresStore(db)
			logger.Info().Msg("connected to database")
		}
	} else {
		logger.Warn().Msg("DATABASE_URL not set, sessions are in-memory only")
	}

	// External clients. Nil when unconfigured; every consumer degrades.
	var reasoning agent.ReasoningClient
	if cfg.HasReasoning() {
		reasoning = agent.NewReasoningClient(cfg.ReasoningAPIKey, cfg.ReasoningAPIURL, cfg.ReasoningModel)
		logger.Info().Str("model", cfg.ReasoningModel).Msg("reasoning service configured")
	} else {
		logger.Warn().Msg("reasoning service not configured, using local fallbacks")
	}

	var speech agent.SpeechClient
	if cfg.HasSpeech() {
		speech = agent.NewElevenLabsClient(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	}

	var notifier risk.DispatchNotifier
	if cfg.HasDispatch() {
		notifier = telegram.NewNotifier(telegram.NewClient(cfg.TelegramBotToken), cfg.DispatchChatID)
		logger.Info().Int64("chat_id", cfg.DispatchChatID).Msg("warning dispatch over telegram enabled")
	}

	m := metrics.New()

	// Services.
	sessions := session.NewService(store)
	matcher := protocol.NewMatcher(protocol.DefaultCatalog())
	protocols := protocol.NewService(matcher, reasoning, logger)
	checker := interaction.NewChecker(interaction.DefaultRules())
	pipeline := risk.NewPipeline(checker, reasoning, logger)
	triageSvc := triage.NewService(reasoning, logger)
	handoffSvc := handoff.NewService(reasoning, logger)
	hub := units.NewHub()
	// rand.Rand is not goroutine-safe; each consumer gets its own.
	board := resources.NewHospitalBoard(rand.New(rand.NewSource(time.Now().UnixNano())))
	feed := resources.NewIncidentFeed(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))
	runner := simulation.NewRunner(sessions, rand.New(rand.NewSource(time.Now().UnixNano()+2)), logger)

	// Handlers.
	sessionHandler := session.NewHandler(sessions)
	protocolHandler := protocol.NewHandler(protocols)
	triageHandler := triage.NewHandler(triageSvc, m)
	riskHandler := risk.NewHandler(pipeline, sessions, speech, notifier, m, logger)
	handoffHandler := handoff.NewHandler(handoffSvc, sessions)
	unitsHandler := units.NewHandler(hub, logger)
	resourcesHandler := resources.NewHandler(board, feed)
	simulationHandler := simulation.NewHandler(runner, sessions)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"service":"resq-server","status":"operational"}`))
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		session.RegisterRoutes(r, sessionHandler)
		protocol.RegisterRoutes(r, protocolHandler)
		triage.RegisterRoutes(r, triageHandler)
		risk.RegisterRoutes(r, riskHandler)
		handoff.RegisterRoutes(r, handoffHandler)
		resources.RegisterRoutes(r, resourcesHandler)
		simulation.RegisterRoutes(r, simulationHandler)
	})
	units.RegisterRoutes(r, unitsHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

func openDatabase(url string, logger zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	// The database container may still be starting; retry briefly.
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		logger.Debug().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(time.Second)
	}
	db.Close()
	return nil, err
}

func runMigrations(url string) error {
	mg, err := migrate.New("file://migrations", url)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			return runMigrations(cfg.DatabaseURL)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			mg, err := migrate.New("file://migrations", cfg.DatabaseURL)
			if err != nil {
				return err
			}
			version, dirty, err := mg.Version()
			if err != nil {
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Println("no migrations applied")
					return nil
				}
				return err
			}
			fmt.Printf("version=%d dirty=%v\n", version, dirty)
			return nil
		},
	})
	return cmd
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if allowed["*"] {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
