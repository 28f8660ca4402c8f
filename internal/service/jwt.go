package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the token
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

const tokenTTL = 24 * time.Hour

var jwtSecret []byte

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// Claims is what handlers need from a verified token
type Claims struct {
	UserID int64
	Role   string
}

func GenerateJWT(userID int64, role string) (string, error) {
	return GenerateJWTWithTTL(userID, role, tokenTTL)
}

func GenerateJWTWithTTL(userID int64, role string, ttl time.Duration) (string, error) {
	if role == "" {
		role = RolePlayer
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	// jwt/v5 already checks exp and nbf
	if err != nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return Claims{}, errors.New("user_id not found")
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = RolePlayer
	}

	return Claims{UserID: int64(userID), Role: role}, nil
}
