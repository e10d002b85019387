package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/nexushr/hrms-backend-go/internal/domain/user"
)

const TokenTypeAccess = "access"

// Claims is the verified payload of an access token.
type Claims struct {
	UserID     string
	EmployeeID *string
	Role       user.Role
}

func (c Claims) Identity() user.Identity {
	return user.Identity{UserID: c.UserID, EmployeeID: c.EmployeeID, Role: c.Role}
}

type Service interface {
	GenerateAccessToken(userID string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

// GenerateAccessToken issues a token in the shape the auth middleware expects.
// Login lives in the identity service; this is used by tooling and tests.
func (j *JWTService) GenerateAccessToken(userID string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": returnValueOrNil(employeeID),
		"role":        string(role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseClaims extracts access token claims from a decoded claim map.
func ParseClaims(claims map[string]interface{}) (Claims, error) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != TokenTypeAccess {
		return Claims{}, user.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, user.ErrInvalidToken
	}

	roleStr, _ := claims["role"].(string)
	role, err := user.ParseRole(roleStr)
	if err != nil {
		return Claims{}, errors.Join(user.ErrInvalidToken, err)
	}

	var employeeID *string
	switch v := claims["employee_id"].(type) {
	case nil:
	case string:
		if v != "" {
			employeeID = &v
		}
	default:
		return Claims{}, fmt.Errorf("%w: employee_id must be a string", user.ErrInvalidToken)
	}

	return Claims{UserID: userID, EmployeeID: employeeID, Role: role}, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
