// Package gateway fronts the console UI and enforces which pages need a
// signed-in admin.
package gateway

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/models"
)

// Decision is what the guard did with a request.
type Decision string

const (
	DecisionSkip              Decision = "skip"
	DecisionAllow             Decision = "allow"
	DecisionNoCookie          Decision = "redirect_no_cookie"
	DecisionSignedIn          Decision = "redirect_dashboard"
	DecisionInvalidSession    Decision = "redirect_invalid_session"
	DecisionSessionCheckError Decision = "redirect_check_failed"
)

const (
	loginPath     = "/"
	dashboardPath = "/dashboard"
)

var protectedPrefixes = []string{"/dashboard", "/admin"}

// SessionVerifier confirms a session cookie with the backend.
type SessionVerifier interface {
	VerifySession(ctx context.Context, cookie *http.Cookie) (*models.AdminUser, error)
}

// RouteGuard redirects page navigations based on the session cookie.
type RouteGuard struct {
	verifier     SessionVerifier
	cookieName   string
	checkTimeout time.Duration
	logger       logger.Logger
}

func NewRouteGuard(verifier SessionVerifier, cookieName string, checkTimeout time.Duration, log logger.Logger) *RouteGuard {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cookieName == "" {
		cookieName = "token"
	}
	if checkTimeout <= 0 {
		checkTimeout = 5 * time.Second
	}
	return &RouteGuard{
		verifier:     verifier,
		cookieName:   cookieName,
		checkTimeout: checkTimeout,
		logger:       log.WithFields(map[string]interface{}{"component": "route-guard"}),
	}
}

// Skipped reports requests the guard never touches: framework assets, API
// calls, RSC fetches, static files and non-navigation fetches. A missing
// Sec-Fetch-Mode counts as a navigation.
func Skipped(r *http.Request) bool {
	p := r.URL.Path
	if strings.HasPrefix(p, "/_next") || strings.HasPrefix(p, "/api") {
		return true
	}
	if r.URL.Query().Has("_rsc") || r.Header.Get("RSC") == "1" {
		return true
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" && mode != "navigate" {
		return true
	}
	return strings.Contains(path.Base(p), ".")
}

func isProtected(p string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Decide classifies r and returns the redirect target, if any.
func (g *RouteGuard) Decide(r *http.Request) (Decision, string) {
	if Skipped(r) {
		return DecisionSkip, ""
	}

	cookie, err := r.Cookie(g.cookieName)
	hasCookie := err == nil && cookie.Value != ""

	if r.URL.Path == loginPath && hasCookie {
		return DecisionSignedIn, dashboardPath
	}
	if !isProtected(r.URL.Path) {
		return DecisionAllow, ""
	}
	if !hasCookie {
		return DecisionNoCookie, loginPath
	}
	if g.verifier == nil {
		return DecisionAllow, ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.checkTimeout)
	defer cancel()
	user, err := g.verifier.VerifySession(ctx, cookie)
	if err != nil {
		g.logger.Info("Session rejected", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		if ctx.Err() != nil {
			return DecisionSessionCheckError, loginPath
		}
		return DecisionInvalidSession, loginPath
	}
	g.logger.Debug("Session confirmed", map[string]interface{}{
		"path": r.URL.Path,
		"role": user.Role,
	})
	return DecisionAllow, ""
}

// Middleware applies Decide to every request.
func (g *RouteGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, target := g.Decide(c.Request)
		metrics.RouteGuardDecisions.WithLabelValues(string(decision)).Inc()

		if target != "" {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
