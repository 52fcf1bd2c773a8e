package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tripplanner/models"
	"tripplanner/utils"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,max=254,emailformat"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db, log: utils.Component("auth")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Emails are compared case-insensitively.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	db := s.db.WithContext(ctx)
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, utils.NewValidationError("name is required")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.NewInternalError("failed to check email", err)
	}
	if count > 0 {
		return nil, utils.NewConflictError(utils.CodeEmailTaken, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.NewConflictError(utils.CodeEmailTaken, "email already registered")
		}
		return nil, utils.NewInternalError("failed to create user", err)
	}

	s.log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Login checks credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(input.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewUnauthenticatedError("invalid email or password")
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.log.WithField("user_id", user.ID).Warn("Failed login attempt")
		return nil, utils.NewUnauthenticatedError("invalid email or password")
	}

	return &user, nil
}

// GetUser loads a user by id for token resolution
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewUnauthenticatedError("user not found")
		}
		return nil, utils.NewInternalError("failed to load user", err)
	}
	return &user, nil
}
