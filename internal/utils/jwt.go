package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID    string `json:"userId,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	TokenType string `json:"tokenType"` // "access", "refresh" or "confirm"
	jwt.RegisteredClaims
}

func generateToken(userID, email, name, tokenType, secret string, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateAccessToken(userID, email, name, secret string, expiration time.Duration) (string, error) {
	return generateToken(userID, email, name, "access", secret, expiration)
}

func GenerateRefreshToken(userID, email, name, secret string, expiration time.Duration) (string, error) {
	return generateToken(userID, email, name, "refresh", secret, expiration)
}

// GenerateConfirmationToken issues the signed email-verification token. Only
// the email travels in it; the account is looked up again on confirmation.
func GenerateConfirmationToken(email, secret string, expiration time.Duration) (string, error) {
	return generateToken("", email, "", "confirm", secret, expiration)
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// ConfirmToken validates an email-verification token and returns the email
// it was issued for. Expired or tampered tokens fail validation inside
// ValidateToken.
func ConfirmToken(tokenString, secret string) (string, error) {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return "", err
	}
	if claims.TokenType != "confirm" {
		return "", errors.New("not a confirmation token")
	}
	return claims.Email, nil
}
