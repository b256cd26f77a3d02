// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"boomerang/internal/config"
	httptransport "boomerang/internal/http"
	"boomerang/internal/infra"
	"boomerang/internal/logging"
	"boomerang/internal/maps"
	"boomerang/internal/modules/assign"
	"boomerang/internal/modules/driver"
	"boomerang/internal/modules/notify"
	"boomerang/internal/modules/order"
	"boomerang/internal/modules/support"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New("boomerang-api", cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis)
	defer redisClient.Close()

	tokenStore := notify.NewTokenStore(dbPool)

	// Firebase is optional: without a project id the API runs with auth
	// disabled and pushes dropped, which is how local development works.
	var verifier infra.TokenVerifier
	var pusher notify.Pusher = notify.NoopPusher{}
	if cfg.Firebase.ProjectID != "" {
		fb, err := infra.NewFirebase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("firebase init")
		}
		verifier = fb
		pusher = notify.NewFCMPusher(fb.Messaging(), tokenStore)
	} else {
		log.Warn().Msg("no firebase project configured; auth disabled, pushes dropped")
	}

	etaSvc, err := maps.NewETAService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal().Err(err).Msg("maps init")
	}

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore)

	driverStore := driver.NewStore(dbPool, redisClient)

	supportStore := support.NewStore(dbPool)
	supportSvc := support.NewService(supportStore, log)

	fanout := notify.NewFanout(pusher, log)

	assignSvc := assign.NewService(assign.RealScheduler(), orderSvc, driverStore, fanout, supportSvc, etaSvc, log)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Order:    orderSvc,
		Assign:   assignSvc,
		Drivers:  driverStore,
		Tokens:   tokenStore,
		Support:  supportSvc,
		Supports: supportStore,
		Verifier: verifier,
		Log:      log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("serve")
	}
}
