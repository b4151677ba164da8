package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spud29/clancys-outdoors-website/internal/service/identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginHandler authenticates, runs the cart identity transition and swaps
// the caller's cookies from session to customer scope. The response carries
// the server-loaded customer cart: any client-held cart is to be replaced.
func loginHandler(idSvc identityService, transition transitionHandler, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			respondError(c, http.StatusBadRequest, codeValidation, "Email and password are required")
			return
		}

		ctx := c.Request.Context()
		customer, err := idSvc.Authenticate(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				respondError(c, http.StatusUnauthorized, codeUnauthorized, "Invalid credentials")
				return
			}
			logger.Printf("login: %v", err)
			respondError(c, http.StatusInternalServerError, codeInternal, "Login failed")
			return
		}

		var sessionID *string
		if v, cerr := c.Cookie(sessionCookie); cerr == nil && v != "" {
			sessionID = &v
		}
		cart, err := transition.Login(ctx, sessionID, customer.ID)
		if err != nil {
			logger.Printf("login transition: %v", err)
			respondError(c, http.StatusInternalServerError, codeInternal, "Login failed")
			return
		}

		setIdentityCookie(c, customerCookie, customer.ID)
		clearIdentityCookie(c, sessionCookie)
		respondData(c, http.StatusOK, gin.H{"customer": customer, "cart": cart})
	}
}

// logoutHandler drops the customer identity. The caller continues with a
// fresh anonymous session and an empty cart.
func logoutHandler(transition transitionHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		newSession := transition.Logout(c.Request.Context())
		clearIdentityCookie(c, customerCookie)
		setIdentityCookie(c, sessionCookie, newSession)
		respondData(c, http.StatusOK, gin.H{"message": "Logged out"})
	}
}

// startSessionHandler issues an anonymous session cookie so a first-time
// visitor can carry a cart before authenticating.
func startSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, err := c.Cookie(sessionCookie); err == nil && v != "" {
			respondData(c, http.StatusOK, gin.H{"sessionId": v})
			return
		}
		sessionID := identity.NewSessionID()
		setIdentityCookie(c, sessionCookie, sessionID)
		respondData(c, http.StatusOK, gin.H{"sessionId": sessionID})
	}
}
