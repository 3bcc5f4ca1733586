package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"groupgetaway/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

type jwtTokens struct {
	secret []byte
}

// NewJWTTokens returns a TokenIssuer/TokenVerifier pair backed by HS256 with the given secret.
func NewJWTTokens(secret string) (domain.TokenIssuer, domain.TokenVerifier) {
	t := &jwtTokens{secret: []byte(secret)}
	return t, t
}

func (t *jwtTokens) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (t *jwtTokens) Verify(tokenString string) (string, string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", fmt.Errorf("invalid token")
	}
	return claims.Subject, claims.Role, nil
}
