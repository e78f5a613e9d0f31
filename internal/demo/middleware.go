// Package demo puts the API into a read-only mode for public showcases.
package demo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware blocks write operations in demo mode.
// Read-only requests are always allowed, and so are the login endpoints
// so visitors can still sign in with the demo accounts.
type Middleware struct {
	enabled bool
	allowed map[string]bool
}

// NewMiddleware creates a demo mode middleware. allowedPaths are exact
// request paths that may still be written to.
func NewMiddleware(enabled bool, allowedPaths ...string) *Middleware {
	allowed := make(map[string]bool, len(allowedPaths))
	for _, p := range allowedPaths {
		allowed[p] = true
	}
	return &Middleware{enabled: enabled, allowed: allowed}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.allowed[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Header(HeaderDemoMode, "true")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "This action is disabled in demo mode",
			"demo_mode": true,
		})
	}
}

// HeaderDemoMode marks responses rejected because of demo mode.
const HeaderDemoMode = "X-Demo-Mode"
