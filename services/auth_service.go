package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chiludos-backend/models"
	"chiludos-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minUsernameLength = 4
	minPasswordLength = 8
)

type RegisterInput struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}

type ProfileInput struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expiresIn"`
	User      *models.User `json:"user"`
}

type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenManager
	log    *slog.Logger
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, log: log}
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, utils.ValidationError("Full name, username, email and password are required")
	}
	if !utils.ValidateEmail(in.Email) {
		return nil, utils.ValidationError("Invalid email format")
	}
	if len(in.Username) < minUsernameLength {
		return nil, utils.ValidationError("Username must be at least %d characters", minUsernameLength)
	}
	if len(in.Password) < minPasswordLength {
		return nil, utils.ValidationError("Password must be at least %d characters", minPasswordLength)
	}

	db := s.db.WithContext(ctx)
	if err := ensureAccountUnique(db, in.Username, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to secure password")
	}

	user := models.User{
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to create user")
	}

	s.log.Info("account registered", "user_id", user.ID)
	return s.issue(&user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" || in.Password == "" {
		return nil, utils.ValidationError("Username or email and password are required")
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("username = ? OR email = ?", identifier, normalizeEmail(identifier)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.AuthError("Invalid credentials")
	}
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to load user")
	}

	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, utils.AuthError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, utils.ForbiddenError("Account is disabled")
	}

	now := time.Now().UTC()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update last login")
	}
	user.LastLogin = &now

	return s.issue(&user)
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, loadErr(err, "User")
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, utils.ValidationError("Full name cannot be empty")
		}
		updates["full_name"] = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !utils.ValidateEmail(email) {
			return nil, utils.ValidationError("Invalid email format")
		}
		if err := ensureAccountUnique(s.db.WithContext(ctx), "", email, user.ID); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, utils.PersistenceError(err, "Failed to update profile")
	}
	return s.Profile(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return utils.ValidationError("Current and new password are required")
	}
	if len(next) < minPasswordLength {
		return utils.ValidationError("Password must be at least %d characters", minPasswordLength)
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(current, user.PasswordHash) {
		return utils.ValidationError("Current password is incorrect")
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return utils.PersistenceError(err, "Failed to secure password")
	}
	if err := s.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error; err != nil {
		return utils.PersistenceError(err, "Failed to update password")
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, utils.PersistenceError(err, "Failed to generate token")
	}
	return &AuthResult{
		Token:     token,
		ExpiresIn: int64(s.tokens.Expiry().Seconds()),
		User:      user,
	}, nil
}
