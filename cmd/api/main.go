package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spud29/clancys-outdoors-website/internal/config"
	"github.com/spud29/clancys-outdoors-website/internal/db"
	"github.com/spud29/clancys-outdoors-website/internal/httpserver"
	cartrepo "github.com/spud29/clancys-outdoors-website/internal/repository/cart"
	customerrepo "github.com/spud29/clancys-outdoors-website/internal/repository/customer"
	productrepo "github.com/spud29/clancys-outdoors-website/internal/repository/product"
	cartsvc "github.com/spud29/clancys-outdoors-website/internal/service/cart"
	identitysvc "github.com/spud29/clancys-outdoors-website/internal/service/identity"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)
	cartService := cartsvc.New(cartRepo, productRepo)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	identityService := identitysvc.New(customerRepo)
	transition := identitysvc.NewTransition(cartService, cfg.MergeCartOnLogin, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		IdentitySvc: identityService,
		Transition:  transition,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
