package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/warden/internal/application/auth"
	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	infraauth "github.com/amirhosseinghanipour/warden/internal/infrastructure/auth"
	httprouter "github.com/amirhosseinghanipour/warden/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/db"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/webhook"
)

var (
	seedAccounts []string
	runWorker    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringArrayVar(&seedAccounts, "seed", nil, "seed the memory store with email:password[:name] (STORE_DRIVER=memory only)")
	serveCmd.Flags().BoolVar(&runWorker, "worker", true, "run the audit webhook worker in-process when REDIS_URL is set")
}

func serve(ctx context.Context) error {
	verifier, err := newVerifier()
	if err != nil {
		return err
	}

	var (
		store ports.CredentialStore
		pool  *pgxpool.Pool
	)
	switch cfg.Database.Driver {
	case "memory":
		mem := memory.NewCredentialStore()
		if err := seedMemoryStore(mem, verifier, seedAccounts); err != nil {
			return err
		}
		store = mem
		log.Warn().Int("accounts", len(seedAccounts)).Msg("using in-memory credential store")
	default:
		pool, err = postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		store = postgres.NewCredentialStore(db.New(pool))
	}

	var redisClient *redis.Client
	var redisOpt *redis.Options
	if cfg.Redis.URL != "" {
		redisOpt, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		redisClient = redis.NewClient(redisOpt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	var enqueuer ports.TaskEnqueuer = queue.NewNoopEnqueuer()
	var worker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Username: redisOpt.Username, Password: redisOpt.Password, DB: redisOpt.DB, TLSConfig: redisOpt.TLSConfig}
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		enqueuer = asynqEnq

		if runWorker {
			var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
			if cfg.Webhook.URL != "" {
				emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, webhook.WithSecret(cfg.Webhook.Secret))
			}
			worker = queue.NewWorker(asynqOpt, queue.NewAuditDelivery(emitter, log), 2)
			if err := worker.Start(); err != nil {
				return fmt.Errorf("start audit worker: %w", err)
			}
			defer worker.Shutdown()
		}
	}

	secret, err := infraauth.LoadSigningSecret(cfg.JWT.Secret, cfg.JWT.SecretPath, cfg.IsDevelopment())
	if err != nil {
		return err
	}
	codec := infraauth.NewTokenCodec(secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	authn := auth.NewAuthenticator(store, verifier, codec, auth.Policy{
		StandardTTL:      cfg.JWT.Expiry,
		RememberMeTTL:    cfg.JWT.RememberMeTTL,
		LockoutThreshold: cfg.Lockout.Threshold,
		LockoutDuration:  cfg.Lockout.Duration,
	})

	loginLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.Login, redisClient)
	if err != nil {
		return fmt.Errorf("create login rate limiter: %w", err)
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authn, enqueuer, log),
		HealthHandler:  handlers.NewHealthHandler(pool, redisClient),
		RequireSession: middleware.NewRequireSession(auth.NewSessionGuard(codec), log),
		Log:            log,
		Secure:         middleware.NewSecure(middleware.SecureOptions(cfg.IsDevelopment())),
		CORSOrigins:    cfg.CORS.Origins,
		LoginRateLimit: loginLimit,
		APIVersion:     cfg.Server.APIVersion,
		Metrics:        true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Str("store", cfg.Database.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")
	return nil
}

func seedMemoryStore(store *memory.CredentialStore, hasher ports.PasswordHasher, seeds []string) error {
	for i, seed := range seeds {
		parts := strings.SplitN(seed, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid --seed %q, want email:password[:name]", seed)
		}
		hash, err := hasher.Hash(parts[1])
		if err != nil {
			return err
		}
		name := parts[0]
		if len(parts) == 3 && parts[2] != "" {
			name = parts[2]
		}
		store.Put(domain.Account{
			ID:           domain.AccountID(i + 1),
			Name:         name,
			Email:        strings.ToLower(strings.TrimSpace(parts[0])),
			PasswordHash: hash,
		})
	}
	return nil
}
