package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sitedocs/internal/app"
	"sitedocs/internal/config"
	"sitedocs/internal/model"
	"sitedocs/internal/session"
	"sitedocs/internal/transport/http/middleware"
	"sitedocs/internal/transport/http/response"
)

type AuthHandler struct {
	auth     *app.AuthService
	sessions *session.Store
	cookie   config.AuthConfig
}

func NewAuthHandler(auth *app.AuthService, sessions *session.Store, cookie config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
	}
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func viewOf(user *model.User) userView {
	return userView{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Role:  string(user.Role),
	}
}

// SignUp registers the account and opens a session in one step, so a
// fresh signup is immediately signed in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.SignUp(app.SignUpInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailExists):
			response.Error(c, 400, response.CodeEmailExists, "email already registered")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, 400, response.CodeBadRequest, "invalid signup fields")
		default:
			log.Printf("signup failed: %v", err)
			response.Error(c, 500, response.CodeInternalServer, "internal server error")
		}
		return
	}

	if !h.openSession(c, user) {
		return
	}
	response.Created(c, viewOf(user))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, 400, response.CodeBadRequest, "email and password are required")
		case errors.Is(err, app.ErrInvalidCredential):
			response.Error(c, 401, response.CodeInvalidCredentials, "invalid email or password")
		default:
			log.Printf("signin failed: %v", err)
			response.Error(c, 500, response.CodeInternalServer, "internal server error")
		}
		return
	}

	if !h.openSession(c, user) {
		return
	}
	response.OK(c, viewOf(user))
}

// SignOut revokes the server-side session and clears the cookie. It is
// deliberately not behind the auth middleware: signing out with a dead
// or missing session still succeeds.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.CookieName); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			log.Printf("session revoke failed: %v", err)
		}
	}
	h.setCookie(c, "", -1)
	response.OK(c, gin.H{"signedOut": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Error(c, 401, response.CodeUnauthorized, "authentication required")
		return
	}
	user, err := h.auth.GetUser(identity.ID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.OK(c, viewOf(user))
}

// Users lists every account, so clients can build team member pickers.
func (h *AuthHandler) Users(c *gin.Context) {
	users, err := h.auth.ListUsers()
	if err != nil {
		serviceError(c, err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, viewOf(&users[i]))
	}
	response.OK(c, views)
}

func (h *AuthHandler) openSession(c *gin.Context, user *model.User) bool {
	token, err := h.sessions.Open(c.Request.Context(), user)
	if err != nil {
		log.Printf("open session failed: %v", err)
		response.Error(c, 500, response.CodeInternalServer, "internal server error")
		return false
	}
	ttl := time.Duration(h.cookie.SessionTTLMinute) * time.Minute
	h.setCookie(c, token, int(ttl.Seconds()))
	return true
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.CookieSecure, true)
}
