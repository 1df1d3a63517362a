package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	cartapp "github.com/danuprasetya/furnistore/internal/cart/app"
	cartlocal "github.com/danuprasetya/furnistore/internal/cart/infra/local"
	cartpg "github.com/danuprasetya/furnistore/internal/cart/infra/postgres"
	catalogapp "github.com/danuprasetya/furnistore/internal/catalog/app"
	catalogpg "github.com/danuprasetya/furnistore/internal/catalog/infra/postgres"
	checkoutapp "github.com/danuprasetya/furnistore/internal/checkout/app"
	"github.com/danuprasetya/furnistore/internal/checkout/infra/adapter"
	"github.com/danuprasetya/furnistore/internal/checkout/infra/payment"
	favapp "github.com/danuprasetya/furnistore/internal/favorites/app"
	favlocal "github.com/danuprasetya/furnistore/internal/favorites/infra/local"
	favpg "github.com/danuprasetya/furnistore/internal/favorites/infra/postgres"
	"github.com/danuprasetya/furnistore/internal/httpapi"
	"github.com/danuprasetya/furnistore/internal/identity"
	orderapp "github.com/danuprasetya/furnistore/internal/order/app"
	"github.com/danuprasetya/furnistore/internal/order/infra/mail"
	orderpg "github.com/danuprasetya/furnistore/internal/order/infra/postgres"
	"github.com/danuprasetya/furnistore/pkg/config"
	"github.com/danuprasetya/furnistore/pkg/localdb"
	"github.com/danuprasetya/furnistore/pkg/logger"
	"github.com/danuprasetya/furnistore/pkg/postgres"
	"github.com/danuprasetya/furnistore/pkg/shutdown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("storefront exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	db, err := postgres.Open(postgres.Config{
		Host:    cfg.Postgres.Host,
		Port:    cfg.Postgres.Port,
		User:    cfg.Postgres.User,
		Pass:    cfg.Postgres.Pass,
		DB:      cfg.Postgres.DB,
		SSLMode: cfg.Postgres.SSLMode,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	local, err := localdb.Open(localdb.DefaultConfig(cfg.LocalStorePath))
	if err != nil {
		return err
	}
	defer local.Close()

	// Without Firebase credentials every request is anonymous; merge-on-login
	// never fires but the storefront still serves device carts.
	var verifier identity.TokenVerifier
	if fb, err := identity.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile); err != nil {
		log.Warn("firebase verifier unavailable, serving anonymous only", slog.Any("err", err))
	} else {
		verifier = fb
	}

	events := identity.NewBroadcaster()

	catalogSvc := catalogapp.NewService(catalogpg.NewProductRepo(db))

	engine := cartapp.NewEngine(cartpg.NewCartRepo(db), cartlocal.NewStore(local), log)
	go engine.Watch(ctx, events)

	favSvc := favapp.NewService(favpg.NewFavoriteRepo(db), favlocal.NewStore(local), log)
	go favSvc.Watch(ctx, events)

	checkoutSvc := checkoutapp.NewService(
		adapter.NewEngineCartReader(engine),
		adapter.NewCatalogServiceReader(catalogSvc),
		payment.NewClient(payment.Config{
			BaseURL:    cfg.Payment.BaseURL,
			APIKey:     cfg.Payment.APIKey,
			SuccessURL: cfg.Payment.SuccessURL,
			CancelURL:  cfg.Payment.CancelURL,
			Timeout:    cfg.Payment.Timeout,
		}),
		0,
	)

	var mailer orderapp.EmailSender
	if cfg.SendGridAPIKey != "" {
		mailer = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom, log)
	} else {
		log.Warn("sendgrid key missing, order mail disabled")
	}
	orderSvc := orderapp.NewService(orderpg.NewOrderRepo(db), mailer, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Cart:     engine,
		Catalog:  catalogSvc,
		Favs:     favSvc,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Verifier: verifier,
		Events:   events,
		DB:       db,
		Log:      log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
