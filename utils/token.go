package authUtils

import (
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenExpiry is how long an issued token stays valid. Logout is a
// client-side discard; there is no revocation.
const TokenExpiry = 2 * time.Hour

// GenerateToken issues an HS256 token carrying the user's id and role.
func GenerateToken(userID, role string) (string, error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(TokenExpiry).Unix(),
	})

	return token.SignedString([]byte(secretStr))
}

// VerifyToken checks the signature and expiry and returns the embedded user
// id and role.
func VerifyToken(tokenString string) (userID, role string, err error) {
	secretStr := os.Getenv("JWT_SECRET")
	if secretStr == "" {
		return "", "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretStr), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}

	userID, ok = claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("invalid token claims")
	}
	role, _ = claims["role"].(string)

	return userID, role, nil
}
