package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

// Deps carries the services the router wires handlers to.
type Deps struct {
	CartSvc     cartService
	IdentitySvc identityService
	Transition  transitionHandler
}

type cartService interface {
	GetOrCreate(ctx context.Context, customerID, sessionID *string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) (*domain.Cart, error)
}

type identityService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Customer, error)
}

type transitionHandler interface {
	Login(ctx context.Context, sessionID *string, customerID string) (*domain.Cart, error)
	Logout(ctx context.Context) string
}

// buildRouter wires routes for the cart API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if deps.CartSvc == nil {
		return nil, errors.New("cart service required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = corsOrigins
		cfg.AllowCredentials = true
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/cart", getCartHandler(deps.CartSvc, logger))
	router.POST("/cart", postCartHandler(deps.CartSvc, logger))
	router.DELETE("/cart", deleteCartHandler(deps.CartSvc, logger))

	router.POST("/session", startSessionHandler())
	if deps.IdentitySvc != nil && deps.Transition != nil {
		router.POST("/auth/login", loginHandler(deps.IdentitySvc, deps.Transition, logger))
		router.POST("/auth/logout", logoutHandler(deps.Transition))
	}

	return router, nil
}
