package platformapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mawulip/pronostix/internal/domain/user"
	"github.com/mawulip/pronostix/internal/usecase"
)

// LoginCredentials and RegisterInput mirror the backend's expected payloads.
// Matching password/confirmation is the presentation layer's job; the service
// only enforces the required-field contract before going to the network.
type LoginCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

type authResponseWire struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    userWire `json:"user"`
}

// AuthService owns login, registration and logout against the platform
// backend. Successful login writes both tokens and the user snapshot into
// the session in one step.
type AuthService struct {
	client   *Client
	validate *validator.Validate
	throttle *loginThrottle
}

func NewAuthService(client *Client) *AuthService {
	return &AuthService{
		client:   client,
		validate: validator.New(),
		throttle: newLoginThrottle(time.Now),
	}
}

func (s *AuthService) Login(ctx context.Context, creds LoginCredentials) (user.Snapshot, error) {
	if err := s.validate.StructCtx(ctx, creds); err != nil {
		return user.Snapshot{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	if ok, remaining := s.throttle.allow(); !ok {
		return user.Snapshot{}, fmt.Errorf("%w: réessayez dans %ds", ErrTooManyAttempts, int(remaining.Seconds())+1)
	}

	var decoded authResponseWire
	if err := s.client.post(ctx, "/login/", creds, &decoded); err != nil {
		if isCredentialRejection(err) {
			s.throttle.recordFailure()
		}
		return user.Snapshot{}, err
	}

	s.throttle.reset()
	s.client.sess.SetTokens(decoded.Access, decoded.Refresh)
	snapshot := decoded.User.toDomain()
	s.client.sess.SetUser(snapshot)

	return snapshot, nil
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.Snapshot, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return user.Snapshot{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	var decoded authResponseWire
	if err := s.client.post(ctx, "/register/", input, &decoded); err != nil {
		return user.Snapshot{}, err
	}

	s.client.sess.SetTokens(decoded.Access, decoded.Refresh)
	snapshot := decoded.User.toDomain()
	s.client.sess.SetUser(snapshot)

	return snapshot, nil
}

// Logout destroys the local session. The backend keeps no server-side
// session to tear down; invalidating the refresh token is its own policy.
func (s *AuthService) Logout() {
	s.client.sess.Clear()
}

func isCredentialRejection(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusBadRequest
}
