package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/michiganhackers/photo-assassin-backend/internal/apperror"
)

// AuthService is the identity provider boundary: the engine only ever sees
// the verified caller id it extracts from a token.
type AuthService interface {
	GenerateToken(userID string) (string, error)
	VerifyToken(tokenString string) (string, error)
}

type authServiceImpl struct {
	secretKey string
}

func NewAuthService(secretKey string) AuthService {
	return &authServiceImpl{
		secretKey: secretKey,
	}
}

func (that *authServiceImpl) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{}
	claims["uid"] = userID
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken - returns the authenticated user id carried by tokenString.
func (that *authServiceImpl) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(that.secretKey), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", apperror.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: malformed claims", apperror.ErrUnauthenticated)
	}

	userID, ok := claims["uid"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("%w: token carries no user id", apperror.ErrUnauthenticated)
	}

	return userID, nil
}
