package services

import (
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// TokenExpiry is the admin session lifetime.
	TokenExpiry = 7 * 24 * time.Hour

	minPasswordLength = 8
)

// AdminClaims are the JWT claims carried by an admin session token.
type AdminClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewAuthService(db *gorm.DB, validator *infrastructures.Validator) *AuthService {
	return &AuthService{
		db:        db,
		validator: validator,
	}
}

func (s *AuthService) secret() []byte {
	if infrastructures.Config != nil {
		return []byte(infrastructures.Config.JWT_SECRET)
	}
	return nil
}

func (s *AuthService) Login(req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var user models.AdminUser
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, errors.NewInternalServerError(err, "Failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewUnauthorizedError("Invalid email or password")
	}

	claims := AdminClaims{
		AdminID: user.ID,
		Email:   user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret())
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to sign session token")
	}

	return &models.LoginResponse{
		Token: signed,
		Email: user.Email,
	}, nil
}

// ValidateToken parses and verifies an admin session token.
func (s *AuthService) ValidateToken(tokenStr string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret(), nil
	})
	if err != nil {
		return nil, errors.NewUnauthorizedError()
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.NewUnauthorizedError()
	}
	return claims, nil
}

func (s *AuthService) GetAdmin(adminID uuid.UUID) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := s.db.Where("id = ?", adminID).First(&user).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("User not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}
	return &user, nil
}

func (s *AuthService) ChangePassword(adminID uuid.UUID, req *models.ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if len(req.NewPassword) < minPasswordLength {
		return errors.NewBadRequestError(fmt.Sprintf("New password must be at least %d characters", minPasswordLength))
	}

	user, err := s.GetAdmin(adminID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errors.NewBadRequestError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to hash password")
	}

	if err := s.db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to update password")
	}
	return nil
}
