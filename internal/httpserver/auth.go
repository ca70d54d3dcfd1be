package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
)

const claimsCtxKey = "auth.claims"

type authHandler struct {
	svc AuthService
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *authHandler) register(c *gin.Context) {
	var in authsvc.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	u, token, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: token, User: u})
}

func (h *authHandler) login(c *gin.Context) {
	var in authsvc.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	u, token, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: token, User: u})
}

func (h *authHandler) me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), claimsFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *authHandler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// authenticate validates a bearer token when present and stores its claims
// on the context. With required set, a missing token is rejected too.
func authenticate(svc AuthService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				writeError(c, domain.NewError(domain.ErrUnauthorized, "missing bearer token"))
				return
			}
			c.Next()
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		raw = strings.TrimSpace(raw)
		if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			writeError(c, domain.NewError(domain.ErrUnauthorized, "malformed authorization header"))
			return
		}
		claims, err := svc.Authenticate(c.Request.Context(), raw)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(claimsCtxKey, claims)
		c.Next()
	}
}

// requireAdmin must run after authenticate(_, true).
func requireAdmin(c *gin.Context) {
	if claims := claimsFrom(c); claims == nil || !claims.IsAdmin() {
		writeError(c, domain.NewError(domain.ErrForbidden, "admin role required"))
		return
	}
	c.Next()
}

func claimsFrom(c *gin.Context) *authsvc.Claims {
	v, ok := c.Get(claimsCtxKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*authsvc.Claims)
	return claims
}

func isAdmin(c *gin.Context) bool {
	claims := claimsFrom(c)
	return claims != nil && claims.IsAdmin()
}
