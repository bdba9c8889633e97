package security

import (
	"errors"
	"time"
	"workshop_hub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// GenerateToken issues an access token carrying the user's identity.
func GenerateToken(userID, email, name string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"name":    name,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetEmailFromClaims(claims map[string]interface{}) (string, error) {
	email, ok := claims["email"].(string)
	if !ok {
		return "", errors.New("email claim is missing or not a string")
	}
	return email, nil
}

func GetNameFromClaims(claims map[string]interface{}) (string, error) {
	name, ok := claims["name"].(string)
	if !ok {
		return "", errors.New("name claim is missing or not a string")
	}
	return name, nil
}
