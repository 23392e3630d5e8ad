package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/repository"
	"smartnotes-server/pkg/hash"
	. "smartnotes-server/pkg/jwt"
)

func newTestAuthService() (*AuthService, *repository.MemoryUserRepository) {
	repo := repository.NewMemoryUserRepository()
	return NewAuthService(repo, "test-secret", 15*time.Minute, 7*24*time.Hour), repo
}

func TestAuthService_Register(t *testing.T) {
	service, repo := newTestAuthService()
	ctx := context.Background()

	hashedPw, _ := hash.Hash("ExistingPass123!")
	repo.Create(ctx, &domain.User{
		ID:           "existing-id",
		Name:         "Existing",
		Email:        "existing@example.com",
		PasswordHash: hashedPw,
	})

	tests := []struct {
		name       string
		req        *domain.RegisterRequest
		wantErr    error
		wantMsg    string
		wantStored bool
	}{
		{
			name:       "successful registration",
			req:        &domain.RegisterRequest{Name: " New User ", Email: " New@Example.com ", Password: "Password123!"},
			wantStored: true,
		},
		{
			name:    "duplicate email",
			req:     &domain.RegisterRequest{Name: "Another", Email: "EXISTING@example.com", Password: "Password123!"},
			wantErr: domain.ErrEmailTaken,
		},
		{
			name:    "missing name",
			req:     &domain.RegisterRequest{Email: "a@example.com", Password: "Password123!"},
			wantMsg: "Please provide a name",
		},
		{
			name:    "invalid email",
			req:     &domain.RegisterRequest{Name: "A", Email: "not-an-email", Password: "Password123!"},
			wantMsg: "Please provide a valid email",
		},
		{
			name:    "short password",
			req:     &domain.RegisterRequest{Name: "A", Email: "b@example.com", Password: "12345"},
			wantMsg: "Password should be at least 6 characters long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Register(ctx, tt.req)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantMsg != "":
				var vErr *domain.ValidationError
				if !errors.As(err, &vErr) || vErr.Message != tt.wantMsg {
					t.Fatalf("Register() error = %v, want validation %q", err, tt.wantMsg)
				}
			default:
				if err != nil {
					t.Fatalf("Register() unexpected error = %v", err)
				}
			}

			if tt.wantStored {
				user, err := repo.FindByEmail(ctx, "new@example.com")
				if err != nil {
					t.Fatalf("expected user stored under normalized email, got %v", err)
				}
				if user.Name != "New User" {
					t.Errorf("expected trimmed name, got %q", user.Name)
				}
				if user.PasswordHash == "Password123!" || hash.Compare(user.PasswordHash, "Password123!") != nil {
					t.Error("expected password to be stored as a bcrypt hash")
				}
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	if err := service.Register(ctx, &domain.RegisterRequest{Name: "Test", Email: "test@example.com", Password: "Password123!"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name    string
		req     *domain.LoginRequest
		wantErr bool
	}{
		{"successful login", &domain.LoginRequest{Email: "TEST@example.com", Password: "Password123!"}, false},
		{"wrong password", &domain.LoginRequest{Email: "test@example.com", Password: "WrongPassword!"}, true},
		{"unknown email", &domain.LoginRequest{Email: "nobody@example.com", Password: "Password123!"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.Login(ctx, tt.req)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidCredentials) {
					t.Fatalf("Login() error = %v, want invalid credentials", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() unexpected error = %v", err)
			}

			if resp.AccessToken == "" || resp.RefreshToken == "" {
				t.Error("expected both tokens")
			}
			if resp.User.PasswordHash != "" {
				t.Error("password hash leaked into login response")
			}
			if resp.ExpiresIn != int64((15 * time.Minute).Seconds()) {
				t.Errorf("ExpiresIn = %d", resp.ExpiresIn)
			}

			userID, err := service.ValidateAccessToken(resp.AccessToken)
			if err != nil || userID != resp.User.ID {
				t.Errorf("ValidateAccessToken() = %q, %v", userID, err)
			}
		})
	}
}

func TestAuthService_TokenTypesAreNotInterchangeable(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	service.Register(ctx, &domain.RegisterRequest{Name: "Test", Email: "t@example.com", Password: "Password123!"})
	login, err := service.Login(ctx, &domain.LoginRequest{Email: "t@example.com", Password: "Password123!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := service.ValidateAccessToken(login.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("refresh token passed the access check: %v", err)
	}

	if _, err := service.RefreshToken(ctx, &domain.RefreshTokenRequest{RefreshToken: login.AccessToken}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("access token accepted for refresh: %v", err)
	}

	refreshed, err := service.RefreshToken(ctx, &domain.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if _, err := service.ValidateAccessToken(refreshed.AccessToken); err != nil {
		t.Errorf("refreshed access token rejected: %v", err)
	}
}

func TestAuthService_RefreshUnknownUser(t *testing.T) {
	service, _ := newTestAuthService()

	token, err := GenerateRefreshToken("ghost", time.Hour, "test-secret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = service.RefreshToken(context.Background(), &domain.RefreshTokenRequest{RefreshToken: token})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("RefreshToken() error = %v, want unauthorized", err)
	}
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	service, _ := newTestAuthService()

	validToken, _ := GenerateToken("user123", time.Hour, "test-secret")
	foreignToken, _ := GenerateToken("user123", time.Hour, "other-secret")
	expiredToken, _ := GenerateToken("user123", -time.Hour, "test-secret")

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", validToken, false},
		{"wrong secret", foreignToken, true},
		{"expired token", expiredToken, true},
		{"garbage", "invalid.token.here", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := service.ValidateAccessToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAccessToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && userID != "user123" {
				t.Errorf("userID = %s, want user123", userID)
			}
		})
	}
}

func TestUserService_GetByID(t *testing.T) {
	service, repo := newTestAuthService()
	ctx := context.Background()

	service.Register(ctx, &domain.RegisterRequest{Name: "Test", Email: "me@example.com", Password: "Password123!"})
	stored, _ := repo.FindByEmail(ctx, "me@example.com")

	users := NewUserService(repo)
	user, err := users.GetByID(ctx, stored.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked")
	}

	if _, err := users.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want not found", err)
	}
}
