package http

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mrlokans/criminaldb/internal/auth"
	"github.com/mrlokans/criminaldb/internal/settingsstore"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordRequest struct {
	NewPassword string `json:"new_password"`
}

// IdentityResponse describes the signed-in user.
type IdentityResponse struct {
	auth.Identity
	Official bool `json:"official"`
}

// AuthController exposes registration, login, logout and password changes.
type AuthController struct {
	service  *auth.Service
	limiter  *auth.LoginLimiter
	official *settingsstore.Store
}

func NewAuthController(service *auth.Service, limiter *auth.LoginLimiter, official *settingsstore.Store) *AuthController {
	return &AuthController{
		service:  service,
		limiter:  limiter,
		official: official,
	}
}

func (ac *AuthController) identity(id auth.Identity) IdentityResponse {
	resp := IdentityResponse{Identity: id}
	if ac.official != nil {
		resp.Official = ac.official.IsOfficial(id.Username)
	}
	return resp
}

// Register handles POST /api/auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := ac.service.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondFailure(c, err)
		return
	}
	respondCreated(c, gin.H{"id": user.ID, "username": user.Username})
}

// Login handles POST /api/auth/login. Repeated failures from one client for
// one username are throttled when a limiter is configured.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ip := c.ClientIP()
	username := strings.TrimSpace(req.Username)
	if allowed, retryAfter := ac.limiter.Allow(ip, username); !allowed {
		log.WithFields(log.Fields{"ip": ip, "username": username}).Warn("Login throttled")
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respondError(c, http.StatusTooManyRequests, "too many failed login attempts, try again later", "rate_limited")
		return
	}

	id, err := ac.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			ac.limiter.RecordFailure(ip, username)
		}
		respondFailure(c, err)
		return
	}
	ac.limiter.RecordSuccess(ip, username)

	c.JSON(http.StatusOK, ac.identity(id))
}

// Logout handles POST /api/auth/logout. Logging out while anonymous succeeds.
func (ac *AuthController) Logout(c *gin.Context) {
	username, ok := ac.service.Logout()
	c.JSON(http.StatusOK, gin.H{"logged_out": ok, "username": username})
}

// Me handles GET /api/auth/me.
func (ac *AuthController) Me(c *gin.Context) {
	id, ok := auth.GetIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthenticated")
		return
	}
	c.JSON(http.StatusOK, ac.identity(id))
}

// ChangePassword handles POST /api/auth/password for the signed-in user.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := ac.service.ChangePassword(c.Request.Context(), auth.GetUsername(c), req.NewPassword); err != nil {
		respondFailure(c, err)
		return
	}
	respondSuccess(c, "password changed")
}
