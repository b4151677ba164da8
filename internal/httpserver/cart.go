package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spud29/clancys-outdoors-website/internal/domain"
)

type cartActionRequest struct {
	Action    string `json:"action"`
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// getCartHandler returns the caller's cart. A caller with no identity at
// all gets an empty zero-totals cart rather than an error.
func getCartHandler(svc cartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolveIdentity(c)
		if !id.present() {
			respondData(c, http.StatusOK, domain.EmptyCart())
			return
		}

		cart, err := svc.GetOrCreate(c.Request.Context(), id.CustomerID, id.SessionID)
		if err != nil {
			logger.Printf("cart get: %v", err)
			respondError(c, http.StatusInternalServerError, codeInternal, "Failed to get cart")
			return
		}
		respondData(c, http.StatusOK, cart)
	}
}

func postCartHandler(svc cartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, codeValidation, "Invalid request body")
			return
		}
		if req.Action == "" || strings.TrimSpace(req.ProductID) == "" {
			respondError(c, http.StatusBadRequest, codeValidation, "Action and productId are required")
			return
		}

		id := resolveIdentity(c)
		if !id.present() {
			respondError(c, http.StatusUnauthorized, codeUnauthorized, "Session required")
			return
		}

		ctx := c.Request.Context()
		cart, err := svc.GetOrCreate(ctx, id.CustomerID, id.SessionID)
		if err != nil {
			logger.Printf("cart resolve: %v", err)
			respondError(c, http.StatusInternalServerError, codeInternal, "Failed to update cart")
			return
		}

		var updated *domain.Cart
		switch req.Action {
		case "add":
			if req.Quantity == nil || *req.Quantity < 1 {
				respondError(c, http.StatusBadRequest, codeValidation, "Valid quantity is required for add action")
				return
			}
			updated, err = svc.AddItem(ctx, cart.ID, req.ProductID, *req.Quantity)
		case "remove":
			updated, err = svc.RemoveItem(ctx, cart.ID, req.ProductID)
		case "update":
			if req.Quantity == nil || *req.Quantity < 0 {
				respondError(c, http.StatusBadRequest, codeValidation, "Valid quantity is required for update action")
				return
			}
			updated, err = svc.UpdateQuantity(ctx, cart.ID, req.ProductID, *req.Quantity)
		default:
			respondError(c, http.StatusBadRequest, codeValidation, "Invalid action. Must be add, remove, or update")
			return
		}

		if err != nil {
			switch {
			case errors.Is(err, domain.ErrProductUnavailable):
				respondError(c, http.StatusBadRequest, codeProductUnavailable, "Product not available")
			case errors.Is(err, domain.ErrValidation):
				respondError(c, http.StatusBadRequest, codeValidation, err.Error())
			default:
				logger.Printf("cart %s: %v", req.Action, err)
				respondError(c, http.StatusInternalServerError, codeInternal, "Failed to update cart")
			}
			return
		}
		respondData(c, http.StatusOK, updated)
	}
}

func deleteCartHandler(svc cartService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolveIdentity(c)
		if !id.present() {
			respondError(c, http.StatusUnauthorized, codeUnauthorized, "Session required")
			return
		}

		ctx := c.Request.Context()
		cart, err := svc.GetOrCreate(ctx, id.CustomerID, id.SessionID)
		if err == nil {
			_, err = svc.Clear(ctx, cart.ID)
		}
		if err != nil {
			logger.Printf("cart clear: %v", err)
			respondError(c, http.StatusInternalServerError, codeInternal, "Failed to clear cart")
			return
		}
		respondData(c, http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
