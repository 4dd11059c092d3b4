package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTypeLogin tags every bearer token issued at signup or login.
const TokenTypeLogin = "LOGIN"

var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies HS256 bearer tokens signed with one secret.
// Tokens carry no expiry and stay valid for as long as the secret does.
type TokenManager struct {
	Secret []byte
	now    func() time.Time
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{Secret: []byte(secret), now: time.Now}
}

type Claims struct {
	TokenType string `json:"tokenType"`
	UserID    string `json:"userId"`
	jwt.RegisteredClaims
}

func (m *TokenManager) IssueToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	claims := &Claims{
		TokenType: TokenTypeLogin,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

// VerifyToken checks signature and shape only. Every failure is reported as ErrInvalidToken.
func (m *TokenManager) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
