package service

import (
	"errors"
	"time"

	apperrors "procurement-system/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// JwtCustomClaim несёт личность пользователя плюс снимок его прав на момент
// входа: роль, её id и список id вкладок, доступных роли. Снимок позволяет
// проверять доступ без похода в БД (вариант AuthorizeBySnapshot).
type JwtCustomClaim struct {
	UserID         uint64   `json:"userId"`
	Role           string   `json:"role"`
	RoleID         *uint64  `json:"roleId,omitempty"`
	IsAdmin        bool     `json:"isAdmin"`
	TabIDs         []uint64 `json:"tabIds,omitempty"`
	IsRefreshToken bool     `json:"isRefreshToken"`
	jwt.RegisteredClaims
}

type JWTService interface {
	GenerateTokens(claim JwtCustomClaim) (string, string, error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	SecretKey       string
	AccessTokenExp  time.Duration
	RefreshTokenExp time.Duration
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration) JWTService {
	return &jwtService{
		SecretKey:       secretKey,
		AccessTokenExp:  accessTokenExp,
		RefreshTokenExp: refreshTokenExp,
	}
}

func (service *jwtService) GenerateTokens(claim JwtCustomClaim) (string, string, error) {
	accessTokenClaims := claim
	accessTokenClaims.IsRefreshToken = false
	accessTokenClaims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(service.AccessTokenExp)),
	}

	refreshTokenClaims := claim
	refreshTokenClaims.IsRefreshToken = true
	// refresh-токен не носит снимок прав, он нужен только для переиздания
	refreshTokenClaims.TabIDs = nil
	refreshTokenClaims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(service.RefreshTokenExp)),
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS512, &accessTokenClaims)
	accessTokenString, err := accessToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS512, &refreshTokenClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", "", err
	}

	return accessTokenString, refreshTokenString, nil
}

func (s *jwtService) GetAccessTokenTTL() time.Duration {
	return s.AccessTokenExp
}

func (s *jwtService) GetRefreshTokenTTL() time.Duration {
	return s.RefreshTokenExp
}

func (service *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(service.SecretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}
