package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/cache"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/database"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/docstore"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/email"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/handler"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/metrics"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/middleware"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/queue"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/repository"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/router"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/service"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg, logger)
	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	m := metrics.New()

	// ---- Repositories ----
	var regCache repository.ListCache
	if c := cache.NewRegistrationCache(config.LoadCacheConfig(), rdb, logger); c != nil {
		regCache = c
	}
	users := repository.NewUserRepo(store, cfg.BcryptCost, logger)
	colleges := repository.NewCollegeRepo(store, users, logger)
	halls := repository.NewHallRepo(store, logger)
	seminars := repository.NewSeminarRepo(store, halls, logger)
	regs := repository.NewRegistrationRepo(store, regCache, logger)

	// ---- Ticket delivery ----
	mail := service.NewMailNotifier(email.NewRenderer(), email.NewMailer(cfg.Mailer, logger), m, logger)
	var notifier service.Notifier = mail
	if cfg.NotifyMode == "queue" {
		notifier = service.NewQueueNotifier(queue.NewPublisher(cfg.AMQPURL, logger), m)
		go func() {
			if err := queue.StartTicketConsumer(ctx, cfg.AMQPURL, mail.HandleTicketIssued, logger); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("ticket consumer stopped", "err", err)
			}
		}()
	}
	booking := service.NewBookingService(seminars, regs, notifier, m, logger)
	verifier := service.NewVerificationService(regs, seminars, m, logger)

	// ---- HTTP ----
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.CORS(cfg.CORSOrigins), middleware.RequestLogger(logger))

	router.RegisterRoutes(e, &handler.HealthHandler{Store: store, Redis: rdb}, m.Handler())
	router.RegisterAuth(e,
		&handler.CollegeHandler{Colleges: colleges, Log: logger},
		&handler.AuthHandler{Cfg: cfg, Colleges: colleges, Users: users, Log: logger},
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb, logger),
	)
	semH := &handler.SeminarHandler{Colleges: colleges, Seminars: seminars, Registrations: regs, Log: logger}
	regH := &handler.RegistrationHandler{Colleges: colleges, Seminars: seminars, Registrations: regs, Booking: booking, Log: logger}
	router.RegisterPublic(e, semH, regH, &handler.TicketHandler{Notifier: mail},
		middleware.NewTokenBucket(config.LoadRateLimitConfig("booking"), rdb, logger))
	router.RegisterAdmin(e, cfg.JWTSecret,
		&handler.HallHandler{Halls: halls, Log: logger}, semH, regH,
		&handler.UserHandler{Users: users, Log: logger})
	router.RegisterGuard(e, cfg.JWTSecret,
		&handler.VerifyHandler{Seminars: seminars, Verifier: verifier, Log: logger},
		middleware.NewTokenBucket(config.LoadRateLimitConfig("scan"), rdb, logger))

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver, "notify", cfg.NotifyMode)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// openStore returns the document store named by STORE_DRIVER wrapped in
// the per-call timeout and circuit breaker.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) docstore.Store {
	var base docstore.Store
	switch cfg.StoreDriver {
	case "memory":
		logger.Warn("using in-memory document store; data is lost on restart")
		base = docstore.NewMemoryStore()
	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		base = docstore.NewMySQLStore(db)
	}
	return docstore.NewGuarded(base, cfg.StoreTimeout, config.NewCircuitBreaker("document-store", logger))
}
