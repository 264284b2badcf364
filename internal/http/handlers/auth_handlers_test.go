package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Data    map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not JSON: %v, body: %s", err, w.Body.String())
	}
	return env
}

func postJSON(r *gin.Engine, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func authHandlerRouter(authSvc domain.AuthService) *gin.Engine {
	h := NewAuthHandlers(authSvc)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/send-otp", h.SendOTP)
	r.POST("/api/auth/verify-otp", h.VerifyOTP)
	r.POST("/api/auth/refresh-token", h.Refresh)
	r.POST("/api/auth/google", Gone)
	return r
}

func TestAuthHandlers_Register(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, name, phone, password string, role domain.Role) (*domain.User, error) {
			return &domain.User{ID: 12, Name: name, Phone: phone, Role: role}, nil
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/register", `{"name": "Meera", "phone": "+919876543210", "password": "Secret123", "role": "artisan"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Error("success must be true")
	}
	if env.Data["user_id"].(float64) != 12 {
		t.Errorf("user_id = %v, want 12", env.Data["user_id"])
	}
	if env.Data["phone"] != "XXXXXXXXX3210" {
		t.Errorf("phone = %v, must be masked", env.Data["phone"])
	}
	if env.Data["role"] != "artisan" {
		t.Errorf("role = %v, want artisan", env.Data["role"])
	}
}

func TestAuthHandlers_Register_BadInput(t *testing.T) {
	r := authHandlerRouter(&mocks.MockAuthService{})

	bodies := map[string]string{
		"missing name":  `{"phone": "+919876543210", "password": "Secret123"}`,
		"missing phone": `{"name": "Meera", "password": "Secret123"}`,
		"unknown role":  `{"name": "Meera", "phone": "+919876543210", "password": "Secret123", "role": "superuser"}`,
		"not json":      `register me please`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w := postJSON(r, "/api/auth/register", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if env := decodeEnvelope(t, w); env.Code != domain.CodeValidationFailed {
				t.Errorf("code = %q, want %q", env.Code, domain.CodeValidationFailed)
			}
		})
	}
}

func TestAuthHandlers_Register_DuplicatePhone(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		RegisterFunc: func(ctx context.Context, name, phone, password string, role domain.Role) (*domain.User, error) {
			return nil, domain.ErrUserAlreadyExists
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/register", `{"name": "Meera", "phone": "+919876543210", "password": "Secret123"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != domain.CodeUserExists {
		t.Errorf("code = %q, want %q", env.Code, domain.CodeUserExists)
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, phone, password, deviceInfo string) (*domain.AuthResult, error) {
			if password != "Secret123" {
				return nil, domain.ErrInvalidCredentials
			}
			return &domain.AuthResult{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    900,
				User:         &domain.User{ID: 12, Name: "Meera", Phone: phone, Role: domain.RoleCustomer, IsPhoneVerified: true},
			}, nil
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/login", `{"phone": "+919876543210", "password": "Secret123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if env.Data["access_token"] != "access-token" || env.Data["refresh_token"] != "refresh-token" {
		t.Errorf("tokens missing from response: %v", env.Data)
	}
	if env.Data["token_type"] != "Bearer" {
		t.Errorf("token_type = %v, want Bearer", env.Data["token_type"])
	}
	if env.Data["expires_in"].(float64) != 900 {
		t.Errorf("expires_in = %v, want 900", env.Data["expires_in"])
	}
	user := env.Data["user"].(map[string]interface{})
	if user["phone"] != "XXXXXXXXX3210" {
		t.Errorf("user phone = %v, must be masked", user["phone"])
	}

	w = postJSON(r, "/api/auth/login", `{"phone": "+919876543210", "password": "wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != domain.CodeInvalidCredentials {
		t.Errorf("code = %q, want %q", env.Code, domain.CodeInvalidCredentials)
	}
}

func TestAuthHandlers_SendOTP(t *testing.T) {
	expires := time.Now().Add(10 * time.Minute)
	authSvc := &mocks.MockAuthService{
		SendOTPFunc: func(ctx context.Context, phone string) (*domain.OTPTransaction, error) {
			return &domain.OTPTransaction{TransactionID: "txn-1", Masked: domain.MaskPhone(phone), ExpiresAt: expires}, nil
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/send-otp", `{"phone": "+919876543210"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Data["transaction_id"] != "txn-1" {
		t.Errorf("transaction_id = %v", env.Data["transaction_id"])
	}
	if env.Data["phone"] != "XXXXXXXXX3210" {
		t.Errorf("phone = %v, must be masked", env.Data["phone"])
	}
}

func TestAuthHandlers_SendOTP_RateLimited(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		SendOTPFunc: func(ctx context.Context, phone string) (*domain.OTPTransaction, error) {
			return nil, domain.ErrRateLimited
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/send-otp", `{"phone": "+919876543210"}`)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != domain.CodeRateLimited {
		t.Errorf("code = %q, want %q", env.Code, domain.CodeRateLimited)
	}
}

func TestAuthHandlers_VerifyOTP(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		VerifyOTPFunc: func(ctx context.Context, phone, code string) (*domain.User, error) {
			if code != "123456" {
				return nil, domain.ErrOTPInvalid
			}
			return &domain.User{ID: 12, Phone: phone, IsPhoneVerified: true}, nil
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/verify-otp", `{"phone": "+919876543210", "code": "123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Data["is_phone_verified"] != true {
		t.Errorf("is_phone_verified = %v, want true", env.Data["is_phone_verified"])
	}

	w = postJSON(r, "/api/auth/verify-otp", `{"phone": "+919876543210", "code": "000000"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != domain.CodeInvalidCode {
		t.Errorf("code = %q, want %q", env.Code, domain.CodeInvalidCode)
	}
}

func TestAuthHandlers_Refresh(t *testing.T) {
	authSvc := &mocks.MockAuthService{
		RefreshTokenFunc: func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
			if refreshToken != "good-refresh" {
				return nil, domain.ErrTokenInvalidOrExpired
			}
			return &domain.AuthResult{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 900}, nil
		},
	}
	r := authHandlerRouter(authSvc)

	w := postJSON(r, "/api/auth/refresh-token", `{"refresh_token": "good-refresh"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Data["access_token"] != "new-access" || env.Data["refresh_token"] != "new-refresh" {
		t.Errorf("rotated tokens missing: %v", env.Data)
	}

	// A reused or tampered token maps to the stable invalid-or-expired code.
	w = postJSON(r, "/api/auth/refresh-token", `{"refresh_token": "stale"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != domain.CodeInvalidOrExpired {
		t.Errorf("code = %q, want %q", env.Code, domain.CodeInvalidOrExpired)
	}
}

func TestAuthHandlers_RetiredEndpoint(t *testing.T) {
	r := authHandlerRouter(&mocks.MockAuthService{})

	w := postJSON(r, "/api/auth/google", `{}`)
	if w.Code != http.StatusGone {
		t.Fatalf("status = %d, want 410", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("success must be false")
	}
}
