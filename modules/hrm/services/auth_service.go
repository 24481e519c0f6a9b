package services

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"
	"github.com/uroojmurtaza-maker/oms-frontend/pkg/session"
)

type Doer interface {
	Do(ctx context.Context, method, path string, opts httpapi.RequestOptions) ([]byte, error)
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type AuthService struct {
	api       Doer
	session   *session.Session
	loginPath string
}

func NewAuthService(api Doer, sess *session.Session, loginPath string) *AuthService {
	if loginPath == "" {
		loginPath = "/users/login"
	}
	return &AuthService{
		api:       api,
		session:   sess,
		loginPath: loginPath,
	}
}

// Login exchanges credentials for a token and stores both token and user in the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.User, error) {
	body, err := s.api.Do(ctx, http.MethodPost, s.loginPath, httpapi.RequestOptions{
		Body:     map[string]string{"email": email, "password": password},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}
	var resp loginResponse
	if err := decodeUnwrapped(body, &resp, "data"); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response did not include a token")
	}
	if err := s.session.Login(ctx, resp.User, resp.Token); err != nil {
		return nil, err
	}
	return s.session.User(), nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}
