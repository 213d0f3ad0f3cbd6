package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"keenpages/internal/apperr"
	"keenpages/internal/models"
	"keenpages/internal/repository"
	"keenpages/internal/security"
	"keenpages/internal/validation"
)

// AuthService handles registration, login and password recovery. Logins
// are stateless: a signed token carries the user id and role, and every
// authenticated request reloads the user from the database.
type AuthService struct {
	userRepo      *repository.UserRepository
	email         *EmailService
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, email *EmailService, jwtSecret string, tokenDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		email:         email,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account and returns the user with a fresh
// login token.
func (s *AuthService) Register(email, password, username, firstName, lastName string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	}
	if existing != nil {
		return nil, "", apperr.New(apperr.Validation, "An account with this email already exists.")
	}
	existing, err = s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	}
	if existing != nil {
		return nil, "", apperr.New(apperr.Validation, "This username is already taken.")
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Internal, "Server error creating your account.", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, username, firstName, lastName)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	if s.email != nil && s.email.IsEnabled() {
		if err := s.email.SendWelcomeEmail(context.Background(), user.Email, user.FirstName); err != nil {
			log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, token, nil
}

// Authenticate checks credentials and returns the user with a login
// token. The login may be an email address or a username.
func (s *AuthService) Authenticate(login, password string) (*models.User, string, error) {
	login = strings.TrimSpace(login)

	user, err := s.userRepo.GetUserByEmail(strings.ToLower(login))
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "Server error signing you in.", err)
	}
	if user == nil {
		if user, err = s.userRepo.GetUserByUsername(login); err != nil {
			return nil, "", apperr.Wrap(apperr.Dependency, "Server error signing you in.", err)
		}
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperr.New(apperr.Validation, "Incorrect email or password.")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken parses a login token and loads the current user record.
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	claims, err := security.ParseToken(s.jwtSecret, tokenString)
	if err != nil {
		return nil, apperr.Wrap(apperr.Authorization, "You must be signed in to make this request.", err)
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error verifying your session.", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Authorization, "You must be signed in to make this request.")
	}
	return user, nil
}

// OAuthLogin authenticates or creates a user from an OAuth provider
// identity and returns a login token.
func (s *AuthService) OAuthLogin(provider, subject, email, firstName, lastName string) (*models.User, string, error) {
	if provider == "" || subject == "" {
		return nil, "", apperr.New(apperr.Validation, "Missing provider information, please try again.")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	user, err := s.userRepo.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.Dependency, "Server error signing you in.", err)
	}

	if user == nil {
		existing, err := s.userRepo.GetUserByEmail(email)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.Dependency, "Server error signing you in.", err)
		}
		if existing != nil {
			if err := s.userRepo.LinkOAuthProvider(existing.ID, provider, subject); err != nil {
				return nil, "", apperr.Wrap(apperr.Dependency, "Server error signing you in.", err)
			}
			user = existing
		} else {
			user, err = s.createOAuthUser(provider, subject, email, firstName, lastName)
			if err != nil {
				return nil, "", err
			}
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) createOAuthUser(provider, subject, email, firstName, lastName string) (*models.User, error) {
	username := strings.Split(email, "@")[0]
	if existing, err := s.userRepo.GetUserByUsername(username); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	} else if existing != nil {
		suffix, err := generateSecureToken(3)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Server error creating your account.", err)
		}
		username = username + "-" + suffix
	}

	// OAuth accounts get an unusable random password. Password login is
	// possible only after a reset through email.
	randomSecret, err := generateSecureToken(32)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error creating your account.", err)
	}
	passwordHash, err := security.HashPassword(randomSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Server error creating your account.", err)
	}

	user, err := s.userRepo.CreateUser(email, passwordHash, username, firstName, lastName)
	if err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	}
	if err := s.userRepo.LinkOAuthProvider(user.ID, provider, subject); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "Server error creating your account.", err)
	}
	return user, nil
}

// RequestPasswordReset creates a reset token and emails the reset link.
// It never reveals whether the address is registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error processing your request.", err)
	}
	if user == nil {
		return nil
	}

	token, err := generateSecureToken(32)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Server error processing your request.", err)
	}

	_ = s.userRepo.DeleteUserPasswordResetTokens(user.ID)

	expiresAt := time.Now().Add(1 * time.Hour)
	if err := s.userRepo.CreatePasswordResetToken(token, user.ID, expiresAt); err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error processing your request.", err)
	}

	if s.email != nil && s.email.IsEnabled() {
		if err := s.email.SendPasswordResetEmail(ctx, user.Email, user.FirstName, token); err != nil {
			return apperr.Wrap(apperr.Dependency, "Error sending your password reset email.", err)
		}
	}
	return nil
}

// ResetPassword sets a new password using a valid reset token.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	resetToken, err := s.userRepo.GetPasswordResetToken(token)
	if err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error resetting your password.", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return apperr.New(apperr.Validation, "This reset link is invalid or has expired.")
	}

	if err := validation.ValidatePassword(newPassword); err != nil {
		return apperr.Wrap(apperr.Validation, err.Error(), err)
	}
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Server error resetting your password.", err)
	}

	if err := s.userRepo.UpdatePassword(resetToken.UserID, passwordHash); err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error resetting your password.", err)
	}
	if err := s.userRepo.MarkPasswordResetTokenAsUsed(token); err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error resetting your password.", err)
	}
	return nil
}

// ChangePassword updates the password of a signed-in user after
// verifying the current one.
func (s *AuthService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if !security.CheckPassword(currentPassword, user.PasswordHash) {
		return apperr.New(apperr.Validation, "Your current password is incorrect.")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Server error changing your password.", err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, passwordHash); err != nil {
		return apperr.Wrap(apperr.Dependency, "Server error changing your password.", err)
	}
	return nil
}

// CleanupExpiredPasswordResetTokens removes expired reset tokens
func (s *AuthService) CleanupExpiredPasswordResetTokens() error {
	if err := s.userRepo.DeleteExpiredPasswordResetTokens(); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token, err := security.GenerateToken(s.jwtSecret, user.ID, user.Role, s.tokenDuration)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "Server error signing you in.", err)
	}
	return token, nil
}

// generateSecureToken generates a cryptographically secure random token
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
