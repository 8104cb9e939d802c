package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/finbudd/cfa-tracker-api/internal/backend"
	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/models"
	"github.com/finbudd/cfa-tracker-api/internal/store"
)

// ErrAuthFailed indicates the credentials were rejected by the auth provider.
var ErrAuthFailed = errors.New("invalid email or password")

// AuthService owns the authentication flows against the hosted provider.
type AuthService interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (dto.SessionResponse, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (dto.SessionResponse, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (dto.CurrentUserResponse, error)
}

type authService struct {
	client          *backend.Client
	store           store.Store
	validator       *validator.Validate
	defaultExamDate time.Time
	logger          zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(client *backend.Client, st store.Store, validate *validator.Validate, defaultExamDate time.Time, logger zerolog.Logger) AuthService {
	return &authService{
		client:          client,
		store:           st,
		validator:       validate,
		defaultExamDate: defaultExamDate,
		logger:          logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) SignUp(ctx context.Context, req dto.SignUpRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SessionResponse{}, err
	}

	session, err := s.client.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return dto.SessionResponse{}, mapAuthError(err)
	}
	if session.User == nil || session.User.ID == "" {
		return dto.SessionResponse{}, errors.New("auth provider returned no user")
	}

	// Profile creation is best-effort: a transient write failure must not
	// lock the user out of the account that was just created.
	examDate := datatypes.Date(s.defaultExamDate)
	student := models.Student{
		ID:       session.User.ID,
		Name:     req.Name,
		Email:    req.Email,
		ExamDate: &examDate,
	}
	profileCtx := backend.ContextWithToken(ctx, session.AccessToken)
	if err := s.store.CreateStudent(profileCtx, &student); err != nil {
		s.logger.Warn().Err(err).Str("student_id", session.User.ID).Msg("failed to create student profile")
	}

	return sessionResponse(session), nil
}

func (s *authService) SignIn(ctx context.Context, req dto.SignInRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SessionResponse{}, err
	}

	session, err := s.client.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return dto.SessionResponse{}, mapAuthError(err)
	}
	if session.User == nil || session.User.ID == "" {
		return dto.SessionResponse{}, errors.New("auth provider returned no user")
	}

	return sessionResponse(session), nil
}

// SignOut revokes the remote session. The local session is considered closed
// regardless of the remote outcome, so a failed revocation is logged only.
func (s *authService) SignOut(ctx context.Context, token string) error {
	if err := s.client.SignOut(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("remote sign-out failed")
	}
	return nil
}

// CurrentUser resolves the session behind a token. Any failure, including an
// expired session, yields an unauthenticated result rather than an error.
func (s *authService) CurrentUser(ctx context.Context, token string) (dto.CurrentUserResponse, error) {
	if token == "" {
		return dto.CurrentUserResponse{}, nil
	}

	user, err := s.client.GetUser(ctx, token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("session probe failed")
		return dto.CurrentUserResponse{}, nil
	}
	if user == nil {
		return dto.CurrentUserResponse{}, nil
	}

	sessionUser := sessionUserOf(user)
	return dto.CurrentUserResponse{Authenticated: true, User: &sessionUser}, nil
}

func sessionResponse(session backend.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn,
		User:        sessionUserOf(session.User),
	}
}

func sessionUserOf(user *backend.User) dto.SessionUser {
	if user == nil {
		return dto.SessionUser{}
	}
	return dto.SessionUser{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.UserMetadata.Name,
		IsAdmin: user.UserMetadata.IsAdmin,
	}
}

func mapAuthError(err error) error {
	var reqErr *backend.RequestError
	if errors.As(err, &reqErr) && reqErr.Status >= http.StatusBadRequest && reqErr.Status < http.StatusInternalServerError {
		return ErrAuthFailed
	}
	return err
}
