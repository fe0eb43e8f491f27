package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"rollcall/internal/audit"
	"rollcall/internal/ballot"
	ballothandler "rollcall/internal/ballot/handler"
	ballotmetrics "rollcall/internal/ballot/metrics"
	"rollcall/internal/election"
	electionhandler "rollcall/internal/election/handler"
	"rollcall/internal/identity"
	identityhandler "rollcall/internal/identity/handler"
	"rollcall/internal/nomination"
	nominationhandler "rollcall/internal/nomination/handler"
	nominationmetrics "rollcall/internal/nomination/metrics"
	"rollcall/internal/platform/config"
	"rollcall/internal/platform/httpserver"
	"rollcall/internal/platform/logger"
	"rollcall/internal/platform/postgres"
	"rollcall/internal/platform/redis"
	"rollcall/internal/report"
	reporthandler "rollcall/internal/report/handler"
	httptransport "rollcall/internal/transport/http"
	"rollcall/internal/voterroll"
	voterrollhandler "rollcall/internal/voterroll/handler"
	id "rollcall/pkg/domain"
	mwauth "rollcall/pkg/platform/middleware/auth"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services; nothing here should grow beyond plumbing.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	// Stores: Postgres when DATABASE_URL is set, in-memory otherwise. The
	// memory stores carry the same invariants, so local development and the
	// handler tests run without infrastructure.
	var db *sql.DB
	var (
		userStore      identity.Store
		positionStore  election.Store
		candidateStore nomination.Store
		voterStore     voterroll.Store
		voteStore      ballot.Store
		auditStore     audit.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		userStore = identity.NewPostgresStore(db)
		positionStore = election.NewPostgresStore(db)
		candidateStore = nomination.NewPostgresStore(db)
		voterStore = voterroll.NewPostgresStore(db)
		voteStore = ballot.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		userStore = identity.NewMemoryStore()
		positionStore = election.NewMemoryStore()
		candidateStore = nomination.NewMemoryStore()
		voterStore = voterroll.NewMemoryStore()
		voteStore = ballot.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var revocation identity.RevocationList
	if redisClient != nil {
		defer redisClient.Close()
		revocation = identity.NewRedisRevocationList(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, token revocation is in-memory only")
		revocation = identity.NewMemoryRevocationList()
	}

	kafkaSink, err := audit.NewKafkaSink(cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}
	var sink audit.Sink
	if kafkaSink != nil {
		defer kafkaSink.Close()
		sink = kafkaSink
	}

	publisher := audit.NewPublisher(cfg.AuditBuffer, log)
	auditWorker := audit.NewWorker(auditStore, sink, publisher.Inbox(), log)

	// Services.
	jwtService := identity.NewJWTService(cfg.JWTSigningKey, cfg.TokenTTL)
	identityService := identity.NewService(userStore, jwtService, revocation, publisher)
	electionService := election.NewService(positionStore, publisher)
	nominationService := nomination.NewService(
		candidateStore, positionStore, userStore, voterStore,
		publisher, nominationmetrics.New(),
	)
	ballotService := ballot.NewService(
		voteStore, voterStore, positionStore, candidateStore,
		publisher, ballotmetrics.New(), log,
	)
	importer := voterroll.NewImporter(voterStore, publisher)
	reportService := report.NewService(ballotService, voterStore, auditStore)

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:   identityhandler.New(identityService, log),
		Election:   electionhandler.New(electionService, log),
		Nomination: nominationhandler.New(nominationService, log),
		Ballot:     ballothandler.New(ballotService, voterStore, log),
		VoterRoll:  voterrollhandler.New(voterStore, importer, log),
		Report:     reporthandler.New(reportService, log),

		Auth: mwauth.RequireAuth(jwtService, revocationChecker(revocation), log),
		RequireRole: func(allowed ...id.Role) func(http.Handler) http.Handler {
			return mwauth.RequireRole(log, allowed...)
		},
		Health: healthHandler(db, redisClient),
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting rollcall server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// revocationChecker adapts the identity revocation list to the middleware
// interface. Nil stays nil so the middleware skips the check cleanly.
func revocationChecker(list identity.RevocationList) mwauth.RevocationChecker {
	if list == nil {
		return nil
	}
	return list
}

func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, `{"status":"degraded","postgres":"down"}`, http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, `{"status":"degraded","redis":"down"}`, http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
