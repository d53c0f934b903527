package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/http/middleware"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   int // seconds
}

// CookieConfigFor returns the cookie attributes for the environment.
// Production runs the client on another site, which needs SameSite=None
// and therefore Secure.
func CookieConfigFor(production bool, maxAge int) CookieConfig {
	if production {
		return CookieConfig{Secure: true, SameSite: http.SameSiteNoneMode, MaxAge: maxAge}
	}
	return CookieConfig{SameSite: http.SameSiteLaxMode, MaxAge: maxAge}
}

type Handler struct {
	Users  *service.UserService
	Tasks  *service.TaskService
	Cookie CookieConfig
}

func NewHandler(users *service.UserService, tasks *service.TaskService, cookie CookieConfig) *Handler {
	return &Handler{
		Users:  users,
		Tasks:  tasks,
		Cookie: cookie,
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(h.Cookie.SameSite)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.Cookie.Secure, true)
}

// principal returns the caller set by middleware.Auth.
func principal(c *gin.Context) (domain.Principal, bool) {
	return middleware.PrincipalFrom(c)
}
