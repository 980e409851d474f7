package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// operatorIDKey holds the authenticated operator on write routes.
	operatorIDKey = "operatorID"

	errNoCredentials  = "sign in to change programs or press panel buttons"
	errBadCredentials = "Authorization must be 'Bearer <token>'"
	errTokenRejected  = "invalid or expired token"
)

// requireOperator guards the routes that change programs or drive the
// panel. Reads stay public.
func (h *Handler) requireOperator(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		msg := errBadCredentials
		if c.GetHeader("Authorization") == "" {
			msg = errNoCredentials
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Warnw("operator_rejected", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errTokenRejected})
		return
	}

	c.Set(operatorIDKey, id)
	c.Next()
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}

// operatorID returns the operator authenticated by requireOperator, or 0.
func operatorID(c *gin.Context) int {
	return c.GetInt(operatorIDKey)
}
