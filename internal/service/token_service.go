package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/folio-next/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 管理员会话令牌声明
type SessionClaims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionVerifier 令牌校验接口（路由守卫只依赖此接口）
type SessionVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// TokenService 签发与校验会话令牌，无状态
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService 创建令牌服务
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock 替换时钟（测试中模拟时间流逝）
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// Issue 签发固定 2 小时有效期的令牌
func (s *TokenService) Issue(adminID uint, username string) (string, time.Time, error) {
	if adminID == 0 {
		return "", time.Time{}, errors.New("admin id is required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}
	issuedAt := s.now()
	expiresAt := issuedAt.Add(constants.SessionTokenTTL)

	claims := SessionClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(adminID), 10),
			Issuer:    constants.SessionIssuer,
			Audience:  jwt.ClaimStrings{constants.SessionAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify 校验令牌，任何失败统一返回 ErrInvalidToken
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" || len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.SessionIssuer),
		jwt.WithAudience(constants.SessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	subjectID, err := strconv.ParseUint(claims.RegisteredClaims.Subject, 10, 64)
	if err != nil || subjectID == 0 || uint(subjectID) != claims.AdminID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
