package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"max=255"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthController handles authentication-related HTTP endpoints.
type AuthController struct {
	service *Service
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service) *AuthController {
	return &AuthController{service: service}
}

// RegisterRoutes registers the public authentication routes.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.POST("/register", ac.Register)
	router.POST("/login", ac.Login)
}

// RegisterProtectedRoutes registers routes that need an authenticated caller.
func (ac *AuthController) RegisterProtectedRoutes(router gin.IRoutes) {
	router.POST("/logout", ac.Logout)
}

// Register handles account creation.
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	user, err := ac.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login verifies credentials and returns an access token.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	session, err := ac.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout revokes the token used for this request.
func (ac *AuthController) Logout(c *gin.Context) {
	claims := GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := ac.service.Logout(c.Request.Context(), claims); err != nil {
		RespondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ErrorStatus maps service errors to an HTTP status and a client-safe message.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials.Error()
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, ErrUserNotFound.Error()
	case errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrPasswordTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrHasherBusy):
		return http.StatusServiceUnavailable, "server busy, try again later"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the JSON error response for err.
// Unexpected errors are logged and hidden from the client.
func RespondError(c *gin.Context, err error) {
	status, message := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": message})
}
