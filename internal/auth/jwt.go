package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taskhive/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is carried by short-lived session tokens.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user id; the token itself must also
// match the one stored on the user record to be accepted.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// InviteClaims is the signed payload of a project-member invitation link.
type InviteClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	ProjectID      string `json:"project_id"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateAccessToken(user *model.User, secret string, expiry time.Duration) (string, error) {
	claims := &AccessClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func GenerateRefreshToken(userID uuid.UUID, secret string, expiry time.Duration) (string, error) {
	claims := &RefreshClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func GenerateInviteToken(userID, organizationID, projectID uuid.UUID, role, secret string, expiry time.Duration) (string, error) {
	claims := &InviteClaims{
		UserID:         userID.String(),
		OrganizationID: organizationID.String(),
		ProjectID:      projectID.String(),
		Role:           role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseAccessToken(tokenStr, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func ParseRefreshToken(tokenStr, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func ParseInviteToken(tokenStr, secret string) (*InviteClaims, error) {
	claims := &InviteClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenStr, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
