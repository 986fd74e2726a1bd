package httpapi

import (
	"context"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairyhunter13/inventory-service/internal/auth"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
)

const principalKey = "principal"

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// WithRequestID propagates or assigns the X-Request-Id of every request.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-Id", reqID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKeyRequestID, reqID))
		c.Next()
	}
}

// WithLogging logs one http_request line per request.
func WithLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		lat := time.Since(start)
		obs.Logger.Info("http_request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"bytes", max(c.Writer.Size(), 0),
			"latency_ms", float64(lat.Microseconds())/1000.0,
			"request_id", RequestIDFromContext(c.Request.Context()),
		)
	}
}

// withRecovery turns panics into a 500 JSON error.
func withRecovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		obs.Logger.Error("panic_recovered",
			"path", c.Request.URL.Path,
			"panic", rec,
			"request_id", RequestIDFromContext(c.Request.Context()),
		)
		WriteJSONError(c, http.StatusInternalServerError, "internal_error", "")
	})
}

// RequireUser resolves the current principal or stops the request. Browser
// and form requests are redirected to the sign-in page, API requests get 401.
func (a *App) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := a.Auth.CurrentUser(c.Request)
		if !ok {
			if wantsRedirect(c.Request) {
				c.Redirect(http.StatusSeeOther, a.Cfg.SignInURL)
				c.Abort()
				return
			}
			WriteJSONError(c, http.StatusUnauthorized, "unauthenticated", "sign in required")
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

func principalFrom(c *gin.Context) auth.Principal {
	p, _ := c.MustGet(principalKey).(auth.Principal)
	return p
}

// isForm reports whether the body is an HTML form submission.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsRedirect(r *http.Request) bool {
	return isForm(r) || strings.Contains(r.Header.Get("Accept"), "text/html")
}
