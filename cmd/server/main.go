// Command server runs the shareholder recordkeeping API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"registrar/internal/audit"
	"registrar/internal/certificate"
	"registrar/internal/company"
	"registrar/internal/dtc"
	"registrar/internal/invitation"
	"registrar/internal/jwttoken"
	"registrar/internal/platform/config"
	"registrar/internal/platform/kafka"
	"registrar/internal/platform/logger"
	"registrar/internal/platform/metrics"
	"registrar/internal/platform/middleware"
	"registrar/internal/platform/postgres"
	platformredis "registrar/internal/platform/redis"
	"registrar/internal/shareholder"
	"registrar/internal/transaction"
	transporthttp "registrar/internal/transport/http"
	"registrar/internal/user"
	"registrar/pkg/platform/httputil"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		return err
	}

	var (
		auditStore       audit.Store
		companyStore     company.Store
		shareholderStore shareholder.Store
		holdingStore     shareholder.HoldingStore
		certStore        certificate.Store
		txStore          transaction.Store
		dtcStore         dtc.Store
		userStore        user.Store
		invitationStore  invitation.Store
	)

	if cfg.PostgresURL != "" {
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("failed to connect to postgres", "error", err)
			return err
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure schema", "error", err)
			return err
		}
		auditStore = audit.NewPostgresStore(db)
		companyStore = company.NewPostgresStore(db)
		shareholderStore = shareholder.NewPostgresStore(db)
		holdingStore = shareholder.NewPostgresHoldingStore(db)
		certStore = certificate.NewPostgresStore(db)
		txStore = transaction.NewPostgresStore(db)
		dtcStore = dtc.NewPostgresStore(db)
		userStore = user.NewPostgresStore(db)
		invitationStore = invitation.NewPostgresStore(db)
		log.Info("using postgres stores")
	} else {
		auditStore = audit.NewInMemoryStore()
		companyStore = company.NewInMemoryStore()
		shareholderStore = shareholder.NewInMemoryStore()
		holdingStore = shareholder.NewInMemoryHoldingStore()
		certStore = certificate.NewInMemoryStore()
		txStore = transaction.NewInMemoryStore()
		dtcStore = dtc.NewInMemoryStore()
		userStore = user.NewInMemoryStore()
		invitationStore = invitation.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	jwtService := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	var revocation middleware.TokenRevocationChecker
	if cfg.RedisURL != "" {
		redisClient, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			return err
		}
		revocation = jwttoken.NewRedisRevocationList(redisClient.Client)
		log.Info("token revocation list enabled")
	}

	publisher := audit.NewPublisher(auditStore, log)

	g, ctx := errgroup.WithContext(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			log.Error("failed to create kafka producer", "error", err)
			return err
		}
		defer producer.Close()
		worker := audit.NewWorker(producer, publisher.Inbox())
		g.Go(func() error {
			return worker.Run(ctx)
		})
		log.Info("audit kafka mirror enabled", "topic", cfg.AuditTopic)
	}

	router := transporthttp.New(transporthttp.Deps{
		Logger:       log,
		Metrics:      metrics.New(prometheus.DefaultRegisterer),
		Validator:    jwtService,
		Revocation:   revocation,
		Companies:    company.NewHandler(company.NewService(companyStore, shareholderStore, publisher), log),
		Shareholders: shareholder.NewHandler(shareholder.NewService(shareholderStore, holdingStore, publisher), log),
		Certificates: certificate.NewHandler(certificate.NewService(certStore, publisher), log),
		Transactions: transaction.NewHandler(transaction.NewService(txStore, publisher), log),
		DTC:          dtc.NewHandler(dtc.NewService(dtcStore, publisher), log),
		Invitations:  invitation.NewHandler(invitation.NewService(invitationStore, userStore, publisher), log),
		Users:        user.NewHandler(user.NewService(userStore)),
		Audit:        audit.NewHandler(publisher),
		Health: func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		return err
	}
	return nil
}
