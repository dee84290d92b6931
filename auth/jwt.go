package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenLife  = time.Hour
	refreshTokenLife = 7 * 24 * time.Hour

	// Single-purpose tokens carried in email links.
	PurposeVerifyEmail   = "email_verify"
	PurposePasswordReset = "password_reset"

	verifyTokenLife = time.Hour
	resetTokenLife  = 15 * time.Minute
)

var ErrInvalidToken = errors.New("invalid or expired token")

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueTokenPair signs an access/refresh token pair for the user.
func IssueTokenPair(userID uint) (access string, refresh string, err error) {
	access, err = signToken(jwt.MapClaims{
		"user_id":    userID,
		"token_type": "access",
		"exp":        time.Now().Add(accessTokenLife).Unix(),
	})
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(jwt.MapClaims{
		"user_id":    userID,
		"token_type": "refresh",
		"exp":        time.Now().Add(refreshTokenLife).Unix(),
	})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssuePurposeToken signs a short-lived token for an email link. The purpose
// claim stops a reset token from doubling as a verification token.
func IssuePurposeToken(userID uint, purpose string) (string, error) {
	life := verifyTokenLife
	if purpose == PurposePasswordReset {
		life = resetTokenLife
	}
	return signToken(jwt.MapClaims{
		"user_id":    userID,
		"token_type": purpose,
		"exp":        time.Now().Add(life).Unix(),
	})
}

func signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken verifies the signature and expiry and returns the claims when
// token_type matches the expected one.
func ParseToken(tokenString, expectedType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != expectedType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserIDFromClaims extracts the user_id claim (JSON numbers decode as float64).
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
