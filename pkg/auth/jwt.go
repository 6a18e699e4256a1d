package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yourusername/project-hub/internal/domain"
)

var (
	// ErrInvalidToken возвращается при невалидном токене
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken возвращается при истекшем токене
	ErrExpiredToken = errors.New("token expired")
	// ErrWrongTokenType возвращается при неверном типе токена
	ErrWrongTokenType = errors.New("wrong token type")
)

const (
	// TokenTypeAccess - тип токена доступа
	TokenTypeAccess = "access"
	// TokenTypeRefresh - тип токена обновления
	TokenTypeRefresh = "refresh"
)

// Claims представляет данные, хранящиеся в JWT-токене
type Claims struct {
	jwt.RegisteredClaims
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	TokenType string          `json:"token_type"`
}

// Actor возвращает субъект авторизации из claims токена
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{ID: c.UserID, Role: c.Role}
}

// TokenPair содержит пару токенов доступа и обновления
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTManager управляет созданием и проверкой JWT-токенов
type JWTManager struct {
	secretKey        string
	issuer           string
	accessExpiresIn  time.Duration
	refreshExpiresIn time.Duration
}

// NewJWTManager создает новый менеджер JWT-токенов
func NewJWTManager(secretKey, issuer string, accessExpiresIn, refreshExpiresIn time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:        secretKey,
		issuer:           issuer,
		accessExpiresIn:  accessExpiresIn,
		refreshExpiresIn: refreshExpiresIn,
	}
}

// GenerateTokenPair создает пару токенов для пользователя
func (m *JWTManager) GenerateTokenPair(user *domain.User) (*TokenPair, error) {
	accessToken, err := m.generateToken(user, TokenTypeAccess, m.accessExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := m.generateToken(user, TokenTypeRefresh, m.refreshExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(m.accessExpiresIn.Seconds()),
	}, nil
}

func (m *JWTManager) generateToken(user *domain.User, tokenType string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    m.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ValidateAccessToken проверяет токен доступа и возвращает claims
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken проверяет токен обновления и возвращает claims
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, TokenTypeRefresh)
}

func (m *JWTManager) validateToken(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
