package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/auth"
	"github.com/mmynk/moneytravel/internal/middleware"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Handler returns the mount path and handler of the service.
func (s *AuthService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.AuthRegisterProcedure, s.Register)
	handle(r, api.AuthLoginProcedure, s.Login)
	handle(r, api.AuthLogoutProcedure, s.Logout)
	handle(r, api.AuthGetCurrentUserProcedure, s.GetCurrentUser)
	return r.path(api.AuthServiceName)
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *api.RegisterRequest) (*api.Session, error) {
	s.logger.Info("Register request", "email", req.Email)

	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, models.NewValidationError("display_name", "is required")
	}

	user, err := s.authenticator.Register(ctx, req.Email, strings.TrimSpace(req.DisplayName), req.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Email, "error", err)
		return nil, err
	}

	session, err := s.session(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return session, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *api.LoginRequest) (*api.Session, error) {
	s.logger.Info("Login request", "email", req.Email)

	if req.Email == "" || req.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	session, err := s.session(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return session, nil
}

// Logout is a no-op: JWTs are stateless and the client discards its token.
func (s *AuthService) Logout(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx))
	return &api.Empty{}, nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *api.Empty) (*api.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.authenticator.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := api.UserFromModel(user)
	return &res, nil
}

func (s *AuthService) session(user *models.User) (*api.Session, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &api.Session{User: api.UserFromModel(user), Token: token}, nil
}
