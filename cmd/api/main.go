package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mushxhid/Accounting-sub000/internal/admin"
	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/config"
	"github.com/mushxhid/Accounting-sub000/internal/contact"
	"github.com/mushxhid/Accounting-sub000/internal/debit"
	"github.com/mushxhid/Accounting-sub000/internal/expense"
	"github.com/mushxhid/Accounting-sub000/internal/export"
	"github.com/mushxhid/Accounting-sub000/internal/fx"
	"github.com/mushxhid/Accounting-sub000/internal/jobs"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/loan"
	"github.com/mushxhid/Accounting-sub000/internal/logger"
	"github.com/mushxhid/Accounting-sub000/internal/realtime"
	"github.com/mushxhid/Accounting-sub000/internal/router"
	"github.com/mushxhid/Accounting-sub000/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx := context.Background()
	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Log.WithError(err).Warn("redis unreachable, continuing without shared fx cache")
			rdb = nil
		}
	}

	gate := auth.NewGate(cfg.AdminEmails, cfg.SharedOrgID)
	secret := []byte(cfg.JWTSecret)

	fxService := fx.NewService(cfg.FXProviderURL, cfg.FXBaseCurrency, rdb)

	hub := realtime.NewHub()
	go hub.Run()

	mailer := audit.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPass)
	notifier := audit.NewNotifier(pool, mailer, cfg.AuditRecipients)

	authRepo := auth.NewRepository(pool)
	expenseRepo := expense.NewRepository(pool)
	debitRepo := debit.NewRepository(pool)
	loanRepo := loan.NewRepository(pool)
	contactRepo := contact.NewRepository(pool)
	balanceRepo := ledger.NewBalanceRepo(pool)

	ledgerService := ledger.NewService(balanceRepo, debitRepo, expenseRepo, loanRepo)

	authMW := auth.Middleware(secret, gate, authRepo)

	r := &router.Router{
		AuthHandler:    auth.NewHandler(authRepo, gate, secret),
		ExpenseHandler: expense.NewHandler(expenseRepo, ledgerService, fxService, notifier, hub),
		DebitHandler:   debit.NewHandler(debitRepo, ledgerService, fxService, notifier, hub),
		LoanHandler:    loan.NewHandler(loanRepo, ledgerService, fxService, notifier, hub),
		ContactHandler: contact.NewHandler(contactRepo, notifier, hub),
		LedgerHandler:  ledger.NewHandler(ledgerService),
		FxHandler:      fx.NewHandler(fxService),
		AuditHandler:   audit.NewHandler(pool),
		ExportHandler:  export.NewHandler(expenseRepo, debitRepo, loanRepo, contactRepo, ledgerService, notifier),
		AdminHandler:   admin.NewHandler(pool, ledgerService, notifier, hub),
		Hub:            hub,
		AuthMW:         authMW,
		WSGuard:        realtime.UpgradeGuard(secret, gate),
	}

	scheduler := jobs.Start(fxService, ledgerService)
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg.CorsOrigins))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	r.RegisterRoutes(app)

	logger.Log.Info("listening on port ", cfg.Port)
	logger.Log.Fatal(app.Listen(":" + cfg.Port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Log.WithFields(map[string]interface{}{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Info("request")
		return err
	}
}
