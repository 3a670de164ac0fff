// Package server initializes and runs the Gowear API server. It wires the
// database, object storage, mail, and OAuth clients into the application
// services and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gowear/gowear/internal/logging"
	"github.com/gowear/gowear/internal/server/auth"
	"github.com/gowear/gowear/internal/server/config"
	"github.com/gowear/gowear/internal/server/httpapi"
	"github.com/gowear/gowear/internal/server/mail"
	"github.com/gowear/gowear/internal/server/oauth"
	"github.com/gowear/gowear/internal/server/repositories/repomanager"
	"github.com/gowear/gowear/internal/server/services"
	"github.com/gowear/gowear/internal/server/storage"
)

// otpPurgeInterval is how often stale OTP rows are swept.
const otpPurgeInterval = time.Hour

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	otpService *services.OTPService
}

func NewApp(c *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	issuer := auth.NewIssuer([]byte(c.JWTAccessSecret), []byte(c.JWTRefreshSecret), c.AccessTokenExpiry)
	mailer := mail.NewBrevoService(c.BrevoAPIKey, c.BrevoAPIURL, c.MailFromEmail, c.MailFromName)
	google := oauth.NewGoogleService(c.GoogleClientID, c.GoogleClientSecret)

	images, err := storage.NewS3ImageStore(c.S3RootUser, c.S3RootPassword, c.S3Bucket, c.S3Region, c.S3BaseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	userService := services.NewUserService(db, rm, issuer, google, c)
	otpService := services.NewOTPService(db, rm, mailer)
	productService := services.NewProductService(db, rm, images)

	handlers := httpapi.NewHandlers(userService, otpService, productService, logger)
	httpServer := httpapi.NewServer(c.EndpointAddr, handlers, issuer, logger)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpServer,
		otpService: otpService,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// purgeExpiredOTPs sweeps stale codes until the context is cancelled.
func (app *App) purgeExpiredOTPs(ctx context.Context) {
	ticker := time.NewTicker(otpPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.otpService.PurgeExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "otp purge error", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired otps", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.purgeExpiredOTPs(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
