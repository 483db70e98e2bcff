package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"classifieds/internal/consent/events"
	consenthandler "classifieds/internal/consent/handler"
	consentmetrics "classifieds/internal/consent/metrics"
	"classifieds/internal/consent/models"
	"classifieds/internal/consent/session"
	"classifieds/internal/contact"
	"classifieds/internal/i18n"
	"classifieds/internal/listings/catalog"
	listingshandler "classifieds/internal/listings/handler"
	listingsmetrics "classifieds/internal/listings/metrics"
	"classifieds/internal/platform/config"
	"classifieds/internal/platform/health"
	"classifieds/internal/platform/logger"
	"classifieds/internal/platform/tracer"
	"classifieds/internal/site"
	httptransport "classifieds/internal/transport/http"
)

const consentBusBuffer = 256

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Behavior lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	locale, ok := i18n.Parse(cfg.DefaultLocale)
	if !ok {
		log.Warn("unsupported default locale, using fallback", "locale", cfg.DefaultLocale, "fallback", i18n.Default)
		locale = i18n.Default
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	log.Info("initializing classifieds site",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"listings", cat.Count(),
		"default_locale", locale,
	)

	reg := prometheus.DefaultRegisterer
	consentMetrics := consentmetrics.New(reg)
	listingsMetrics := listingsmetrics.New(reg)
	tr := tracer.NewOTel()

	bus := events.NewBus(events.WithAsyncBuffer(consentBusBuffer), events.WithLogger(log))
	defer bus.Close()
	bus.Subscribe(func(ctx context.Context, n models.Notification) {
		log.InfoContext(ctx, "consent updated",
			"notification_id", n.ID,
			"analytics", n.Preferences.Analytics,
			"stripe", n.Preferences.Stripe,
			"client", n.Client,
		)
	})

	sessions := session.NewFactory(session.Settings{
		CookieName:    cfg.Consent.CookieName,
		RetentionDays: cfg.Consent.RetentionDays,
		MeasurementID: cfg.Consent.MeasurementID,
		EnterDelay:    cfg.Consent.BannerEnterDelay,
		ExitDelay:     cfg.Consent.BannerExitDelay,
	},
		session.WithNotifier(bus),
		session.WithLogger(log),
		session.WithMetrics(consentMetrics),
		session.WithTracer(tr),
	)

	mailer := contact.NewMailer(contact.SMTPConfig{
		Host:     cfg.Contact.SMTPHost,
		Port:     cfg.Contact.SMTPPort,
		User:     cfg.Contact.SMTPUser,
		Password: cfg.Contact.SMTPPassword,
		To:       cfg.Contact.Recipient,
	}, log)
	if cfg.Contact.SMTPHost == "" {
		log.Warn("SMTP not configured, contact messages are only logged")
	}
	contactService := contact.NewService(mailer,
		contact.WithLogger(log),
		contact.WithTracer(tr),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("catalog", func(context.Context) error {
		if cat.Count() == 0 {
			return errors.New("listings catalog is empty")
		}
		return nil
	})

	router := httptransport.NewRouter(httptransport.RouterConfig{RequestTimeout: cfg.RequestTimeout}, log,
		healthHandler,
		consenthandler.New(sessions, locale, log),
		listingshandler.New(cat, locale, log, listingsMetrics),
		site.New(cat, sessions, locale,
			site.WithLogger(log),
			site.WithMetrics(listingsMetrics),
			site.WithTracer(tr),
			site.WithContact(contactService),
		),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
