package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := setupTestEnv(t)
	controller := NewAuthController(env.service)
	middleware := NewMiddleware(env.tokens, env.denylist)

	router := gin.New()
	controller.RegisterRoutes(router)

	protected := router.Group("/")
	protected.Use(middleware.Handler())
	controller.RegisterProtectedRoutes(protected)
	protected.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	return router, env
}

func postJSON(router *gin.Engine, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestIntegration_RegisterValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"name":"Ana","email":"a@x.com","password":"pw123"}`, http.StatusCreated},
		{"missing email", `{"password":"pw123"}`, http.StatusBadRequest},
		{"invalid email", `{"email":"nope","password":"pw123"}`, http.StatusBadRequest},
		{"missing password", `{"email":"b@x.com"}`, http.StatusBadRequest},
		{"password too long", `{"email":"c@x.com","password":"` + strings.Repeat("p", 73) + `"}`, http.StatusBadRequest},
		{"malformed json", `{"email":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(router, "/register", tt.body, "")
			if rr.Code != tt.want {
				t.Errorf("POST /register status = %d, want %d: %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestIntegration_RegisterResponseHidesHash(t *testing.T) {
	router, _ := setupTestRouter(t)

	rr := postJSON(router, "/register", `{"email":"a@x.com","password":"pw123"}`, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}

	body := rr.Body.String()
	if strings.Contains(body, "pw123") || strings.Contains(strings.ToLower(body), "password") || strings.Contains(body, "$2a$") {
		t.Errorf("register response leaks credential data: %s", body)
	}

	var resp struct {
		Message string `json:"message"`
		User    struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message == "" || resp.User.ID == 0 || resp.User.Email != "a@x.com" {
		t.Errorf("unexpected register response: %s", body)
	}
}

func TestIntegration_DuplicateRegisterReturns409(t *testing.T) {
	router, _ := setupTestRouter(t)
	body := `{"email":"a@x.com","password":"pw123"}`

	if rr := postJSON(router, "/register", body, ""); rr.Code != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", rr.Code)
	}
	if rr := postJSON(router, "/register", body, ""); rr.Code != http.StatusConflict {
		t.Errorf("second register status = %d, want 409", rr.Code)
	}
}

func TestIntegration_LoginFlow(t *testing.T) {
	router, _ := setupTestRouter(t)
	postJSON(router, "/register", `{"email":"a@x.com","password":"pw123"}`, "")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"a@x.com","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"email":"b@x.com","password":"pw123"}`, http.StatusUnauthorized},
		{"missing fields", `{}`, http.StatusBadRequest},
		{"valid", `{"email":"a@x.com","password":"pw123"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(router, "/login", tt.body, "")
			if rr.Code != tt.want {
				t.Errorf("POST /login status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestIntegration_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	router, _ := setupTestRouter(t)
	postJSON(router, "/register", `{"email":"a@x.com","password":"pw123"}`, "")

	wrong := postJSON(router, "/login", `{"email":"a@x.com","password":"nope"}`, "")
	unknown := postJSON(router, "/login", `{"email":"b@x.com","password":"pw123"}`, "")

	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestIntegration_LogoutRevokesToken(t *testing.T) {
	router, _ := setupTestRouter(t)
	postJSON(router, "/register", `{"email":"a@x.com","password":"pw123"}`, "")

	rr := postJSON(router, "/login", `{"email":"a@x.com","password":"pw123"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d", rr.Code)
	}
	var login LoginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" || login.ExpiresAt.IsZero() {
		t.Fatalf("login response incomplete: %s", rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("protected status before logout = %d", rr.Code)
	}

	if rr := postJSON(router, "/logout", "", login.Token); rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("protected status after logout = %d, want 403", rr.Code)
	}

	// A fresh login is unaffected
	rr = postJSON(router, "/login", `{"email":"a@x.com","password":"pw123"}`, "")
	var second LoginResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &second)
	if rr := postJSON(router, "/logout", "", second.Token); rr.Code != http.StatusNoContent {
		t.Errorf("second logout status = %d, want 204", rr.Code)
	}
}

func TestIntegration_LogoutWithoutToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	if rr := postJSON(router, "/logout", "", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("logout status = %d, want 401", rr.Code)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrUserExists, http.StatusConflict},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrEmailInvalid, http.StatusBadRequest},
		{ErrPasswordTooLong, http.StatusBadRequest},
		{ErrHasherBusy, http.StatusServiceUnavailable},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got, _ := ErrorStatus(tt.err); got != tt.want {
				t.Errorf("ErrorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
