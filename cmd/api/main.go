package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	analysisapp "smartwallet-fraud-shield/internal/application/analysis"
	authapp "smartwallet-fraud-shield/internal/application/auth"
	paymentapp "smartwallet-fraud-shield/internal/application/payment"
	"smartwallet-fraud-shield/internal/domain/transaction"
	"smartwallet-fraud-shield/internal/domain/wallet"
	"smartwallet-fraud-shield/internal/infrastructure/cache/redis"
	"smartwallet-fraud-shield/internal/infrastructure/database/postgres"
	"smartwallet-fraud-shield/internal/infrastructure/http/router"
	"smartwallet-fraud-shield/internal/infrastructure/ml"
	"smartwallet-fraud-shield/internal/infrastructure/stream/kafka"
	"smartwallet-fraud-shield/internal/interfaces/http/handler"
	"smartwallet-fraud-shield/internal/pkg/config"
	"smartwallet-fraud-shield/internal/pkg/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting smartwallet fraud shield",
		zap.String("version", version),
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))

	// Database connection. Without it the service runs standalone on
	// in-memory repositories, which is enough for local development.
	var dbClient *postgres.Client
	var ledger paymentapp.Ledger
	var accounts wallet.Repository
	var audits transaction.AuditRepository

	dbClient, err = postgres.NewClient(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Warn("database connection failed, running with in-memory repositories", zap.Error(err))
		dbClient = nil
		mem := NewMemoryLedger()
		ledger, accounts, audits = mem, mem, mem
	} else {
		logger.Info("connected to PostgreSQL",
			zap.String("host", cfg.Database.Host), zap.Int("port", cfg.Database.Port))
		if err := dbClient.Migrate(); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
		walletRepo := postgres.NewWalletRepository(dbClient)
		ledger = walletRepo
		accounts = walletRepo
		audits = postgres.NewAuditRepository(dbClient)
	}

	// Redis connection. Stats are optional.
	var redisClient *redis.Client
	var statsCache *redis.StatsCache

	redisClient, err = redis.NewClient(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Warn("redis connection failed, stats disabled", zap.Error(err))
		redisClient = nil
	} else {
		logger.Info("connected to Redis",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		statsCache = redis.NewStatsCache(redisClient)
	}

	// Kafka alert publisher. Optional; a nil publisher drops alerts.
	var alertPublisher *kafka.AlertPublisher
	if cfg.Kafka.Enabled {
		alertPublisher = kafka.NewAlertPublisher(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.FraudAlertsTopic,
		}, logger)
		logger.Info("kafka alert publisher enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.FraudAlertsTopic))
	}

	// Scoring artifacts. The scorer serves degraded until they load.
	artifactStore := ml.NewStore(cfg.ML.ArtifactsDir, logger)
	if err := artifactStore.Load(); err != nil {
		logger.Warn("model artifacts not loaded, scoring degraded",
			zap.String("dir", cfg.ML.ArtifactsDir), zap.Error(err))
	}
	scorer := ml.NewScorer(artifactStore, logger)

	// Use cases
	authUseCase := authapp.NewUseCase(accounts, cfg.Wallet.GetOpeningBalance(), logger)
	processPayment := paymentapp.NewProcessPaymentUseCase(
		ledger, scorer, audits, nilIfUnset(alertPublisher), nilIfUnsetStats(statsCache), logger)
	analyzeBatch := analysisapp.NewAnalyzeBatchUseCase(scorer, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authUseCase)
	paymentHandler := handler.NewPaymentHandler(processPayment)
	uploadHandler := handler.NewUploadHandler(analyzeBatch)
	statsHandler := handler.NewStatsHandler(statsCache)

	var dbHealthChecker handler.HealthChecker
	var redisHealthChecker handler.HealthChecker
	if dbClient != nil {
		dbHealthChecker = dbClient
	}
	if redisClient != nil {
		redisHealthChecker = redisClient
	}
	healthHandler := handler.NewHealthHandler(dbHealthChecker, redisHealthChecker, artifactStore, version)

	r := router.NewRouter(authHandler, paymentHandler, uploadHandler, statsHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// SIGHUP reloads model artifacts in place; SIGINT/SIGTERM shut down.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig == syscall.SIGHUP {
			if err := artifactStore.Reload(); err != nil {
				logger.Warn("artifact reload failed, keeping previous bundle", zap.Error(err))
			}
			continue
		}
		break
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}

	if alertPublisher != nil {
		alertPublisher.Close()
	}
	if dbClient != nil {
		dbClient.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("server stopped")
}

// nilIfUnset keeps a typed-nil publisher from masquerading as a non-nil
// interface inside the use case.
func nilIfUnset(p *kafka.AlertPublisher) paymentapp.AlertSink {
	if p == nil {
		return nil
	}
	return p
}

func nilIfUnsetStats(s *redis.StatsCache) paymentapp.StatsRecorder {
	if s == nil {
		return nil
	}
	return s
}

// MemoryLedger is the in-memory standalone fallback when PostgreSQL is not
// available. It implements the account repository, the settle ledger, and
// the audit log with the same semantics as the database-backed versions.
type MemoryLedger struct {
	mu       sync.Mutex
	accounts map[string]*wallet.Account
	audits   []*transaction.AuditRecord
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{accounts: make(map[string]*wallet.Account)}
}

func (l *MemoryLedger) Create(_ context.Context, account *wallet.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[account.Username]; ok {
		return wallet.ErrUsernameTaken
	}
	copied := *account
	l.accounts[account.Username] = &copied
	return nil
}

func (l *MemoryLedger) GetByUsername(_ context.Context, username string) (*wallet.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[username]
	if !ok {
		return nil, wallet.ErrUserNotFound
	}
	copied := *account
	return &copied, nil
}

func (l *MemoryLedger) UpdatePassword(_ context.Context, username, passwordHash string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[username]
	if !ok {
		return wallet.ErrUserNotFound
	}
	account.PasswordHash = passwordHash
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context, username string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[username]
	if !ok {
		return decimal.Zero, wallet.ErrUserNotFound
	}
	return account.Balance, nil
}

func (l *MemoryLedger) Settle(_ context.Context, username string, amount decimal.Decimal, record *transaction.AuditRecord) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	account, ok := l.accounts[username]
	if !ok {
		return decimal.Zero, wallet.ErrUserNotFound
	}
	if account.Balance.LessThan(amount) {
		return decimal.Zero, wallet.ErrInsufficientFunds
	}
	account.Balance = account.Balance.Sub(amount)
	l.audits = append(l.audits, record)
	return account.Balance, nil
}

func (l *MemoryLedger) Block(_ context.Context, record *transaction.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.audits = append(l.audits, record)
	return nil
}

func (l *MemoryLedger) Append(_ context.Context, record *transaction.AuditRecord) error {
	return l.Block(context.Background(), record)
}

func (l *MemoryLedger) ListByUsername(_ context.Context, username string, limit, offset int) ([]*transaction.AuditRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*transaction.AuditRecord
	for i := len(l.audits) - 1; i >= 0; i-- {
		if l.audits[i].Username == username {
			out = append(out, l.audits[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
