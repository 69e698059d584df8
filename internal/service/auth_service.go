package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/folio-next/internal/config"
	"github.com/folio-next/internal/logger"
	"github.com/folio-next/internal/models"
	"github.com/folio-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// AuthService 管理员认证服务
type AuthService struct {
	cfg          *config.Config
	adminRepo    repository.AdminRepository
	tokens       *TokenService
	construction Deactivator
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository, tokens *TokenService, construction Deactivator) *AuthService {
	return &AuthService{
		cfg:          cfg,
		adminRepo:    adminRepo,
		tokens:       tokens,
		construction: construction,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password, username string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password, username)
}

// Login 管理员登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("%w: load admin: %v", ErrPersistence, err)
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		// 登录时间写入失败不阻断登录
		logger.Warnw("admin_last_login_update_failed", "admin_id", admin.ID, "error", err)
	}
	return admin, token, expiresAt, nil
}

// ChangeCredentialsInput 修改凭据参数，用户名与新密码至少一项非空
type ChangeCredentialsInput struct {
	CurrentPassword string
	NewUsername     string
	NewPassword     string
}

// ChangeCredentials 修改管理员用户名或密码，成功后重新签发令牌并关闭施工模式
func (s *AuthService) ChangeCredentials(ctx context.Context, adminID uint, input ChangeCredentialsInput) (*models.Admin, string, time.Time, error) {
	if adminID == 0 {
		return nil, "", time.Time{}, ErrUnauthenticated
	}
	admin, err := s.adminRepo.GetByID(ctx, adminID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("%w: load admin: %v", ErrPersistence, err)
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrNotFound
	}
	if err := s.VerifyPassword(admin.PasswordHash, input.CurrentPassword); err != nil {
		return nil, "", time.Time{}, ErrInvalidPassword
	}

	newUsername := strings.TrimSpace(input.NewUsername)
	if newUsername == "" && input.NewPassword == "" {
		return nil, "", time.Time{}, ErrValidation
	}
	if newUsername != "" && newUsername != admin.Username {
		if !usernamePattern.MatchString(newUsername) {
			return nil, "", time.Time{}, ErrUsernameInvalid
		}
		existing, err := s.adminRepo.GetByUsername(ctx, newUsername)
		if err != nil {
			return nil, "", time.Time{}, fmt.Errorf("%w: check username: %v", ErrPersistence, err)
		}
		if existing != nil && existing.ID != admin.ID {
			return nil, "", time.Time{}, ErrUsernameTaken
		}
		admin.Username = newUsername
	}
	if input.NewPassword != "" {
		if err := s.ValidatePassword(input.NewPassword, admin.Username); err != nil {
			return nil, "", time.Time{}, err
		}
		hashed, err := s.HashPassword(input.NewPassword)
		if err != nil {
			return nil, "", time.Time{}, err
		}
		admin.PasswordHash = hashed
	}

	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, "", time.Time{}, fmt.Errorf("%w: update admin: %v", ErrPersistence, err)
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID, admin.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if s.construction != nil {
		if err := s.construction.Deactivate(ctx); err != nil {
			logger.Warnw("credentials_change_deactivate_failed", "admin_id", admin.ID, "error", err)
		}
	}
	return admin, token, expiresAt, nil
}

// InitDefaultAdmin 在没有任何管理员时创建默认管理员
func (s *AuthService) InitDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return false, ErrUsernameInvalid
	}
	if password == "" {
		return false, errors.New("default admin password is empty")
	}
	hashed, err := s.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.adminRepo.Create(ctx, &models.Admin{Username: username, PasswordHash: hashed}); err != nil {
		return false, err
	}
	return true, nil
}
