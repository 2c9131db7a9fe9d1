package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"estateBack/internal/models"
)

const minPasswordLength = 6

type UserService struct {
	Users      UserStore
	Sessions   SessionStore
	Tokens     TokenIssuer
	Logger     Logger
	AdminEmail string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *UserService) logger() Logger {
	if s.Logger == nil {
		return nopLogger{}
	}
	return s.Logger
}

func roleOf(u models.User) string {
	if u.IsAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", models.ErrValidation)
	}
	return email, nil
}

// SignUp registers an account. The configured admin email becomes an admin.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", models.ErrValidation)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.User{}, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  hash,
		IsAdmin:   s.AdminEmail != "" && strings.EqualFold(email, strings.TrimSpace(s.AdminEmail)),
		CreatedAt: s.now(),
	}
	created, err := s.Users.CreateUser(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	return created, nil
}

// SignIn checks credentials and opens a refresh session.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.SignInResponse, error) {
	user, err := s.Users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.SignInResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.SignInResponse{}, models.ErrInvalidCredentials
	}
	tokens, err := s.issue(ctx, user)
	if err != nil {
		return models.SignInResponse{}, err
	}
	return models.SignInResponse{User: user, Tokens: tokens}, nil
}

func (s *UserService) issue(ctx context.Context, user models.User) (models.Tokens, error) {
	role := roleOf(user)
	access, err := s.Tokens.NewJWT(user.ID, role, s.AccessTTL)
	if err != nil {
		return models.Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, fmt.Errorf("generate refresh token: %w", err)
	}
	session := models.Session{UserID: user.ID, Role: role, ExpiresAt: s.now().Add(s.RefreshTTL)}
	if err := s.Sessions.SaveSession(ctx, refresh, session); err != nil {
		return models.Tokens{}, fmt.Errorf("save session: %w", err)
	}
	return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token for a live refresh session. The role is
// re-read from storage so demotions take effect.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Claims, string, error) {
	session, err := s.Sessions.GetSession(ctx, refreshToken)
	if err != nil {
		return models.Claims{}, "", models.ErrInvalidCredentials
	}
	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		return models.Claims{}, "", models.ErrInvalidCredentials
	}
	user, err := s.Users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.Claims{}, "", models.ErrInvalidCredentials
	}
	role := roleOf(user)
	access, err := s.Tokens.NewJWT(user.ID, role, s.AccessTTL)
	if err != nil {
		return models.Claims{}, "", err
	}
	return models.Claims{UserID: user.ID, Role: role}, access, nil
}

func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Sessions.DeleteSession(ctx, refreshToken)
}

// Get returns an account to its owner or an admin.
func (s *UserService) Get(ctx context.Context, actor Actor, id string) (models.User, error) {
	if !actor.IsAdmin() && actor.ID != id {
		return models.User{}, fmt.Errorf("%w: you can only view your own account", models.ErrForbidden)
	}
	return s.Users.GetUserByID(ctx, id)
}

// Public returns the fields anyone may see.
func (s *UserService) Public(ctx context.Context, id string) (models.PublicUser, error) {
	u, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return models.PublicUser{ID: u.ID, Username: u.Username, Avatar: u.Avatar}, nil
}

// UpdateSelf lets a user edit their own profile. The admin flag is ignored.
func (s *UserService) UpdateSelf(ctx context.Context, actor Actor, id string, upd models.UserUpdate) (models.User, error) {
	if actor.ID != id {
		return models.User{}, fmt.Errorf("%w: you can only update your own account", models.ErrForbidden)
	}
	upd.IsAdmin = nil
	return s.update(ctx, id, upd)
}

func (s *UserService) update(ctx context.Context, id string, upd models.UserUpdate) (models.User, error) {
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if name == "" {
			return models.User{}, fmt.Errorf("%w: username must not be empty", models.ErrValidation)
		}
		user.Username = name
	}
	if upd.Email != nil {
		email, err := normalizeEmail(*upd.Email)
		if err != nil {
			return models.User{}, err
		}
		user.Email = email
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return models.User{}, err
		}
		user.Password = hash
	}
	if upd.Avatar != nil {
		user.Avatar = *upd.Avatar
	}
	if upd.IsAdmin != nil {
		user.IsAdmin = *upd.IsAdmin
	}
	return s.Users.UpdateUser(ctx, user)
}

// DeleteSelf removes the caller's account and every listing it owns.
func (s *UserService) DeleteSelf(ctx context.Context, actor Actor, id string) error {
	if actor.ID != id {
		return fmt.Errorf("%w: you can only delete your own account", models.ErrForbidden)
	}
	return s.deleteCascade(ctx, id)
}

func (s *UserService) deleteCascade(ctx context.Context, id string) error {
	if _, err := s.Users.GetUserByID(ctx, id); err != nil {
		return err
	}
	n, err := s.Users.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.logger().Infof("deleted user %s and %d listings", id, n)
	return nil
}

// AdminDelete removes another account with its listings.
func (s *UserService) AdminDelete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete the signed in admin account", models.ErrValidation)
	}
	return s.deleteCascade(ctx, id)
}

// AdminUpdate edits another account, including its admin flag.
func (s *UserService) AdminUpdate(ctx context.Context, actor Actor, id string, upd models.UserUpdate) (models.User, error) {
	if !actor.IsAdmin() {
		return models.User{}, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	if actor.ID == id {
		return models.User{}, fmt.Errorf("%w: use the profile endpoint to update your own account", models.ErrValidation)
	}
	return s.update(ctx, id, upd)
}
