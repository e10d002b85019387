package jwt

import (
	"testing"

	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")
	empID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &empID, user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claimMap, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	claims, err := ParseClaims(claimMap)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	require.NotNil(t, claims.EmployeeID)
	assert.Equal(t, "emp-1", *claims.EmployeeID)
	assert.Equal(t, user.RoleEmployee, claims.Identity().Role)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", nil, user.RoleAdmin)

	assert.Error(t, err)
}

func TestParseClaims(t *testing.T) {
	cases := []struct {
		name    string
		claims  map[string]interface{}
		wantErr bool
	}{
		{"valid without employee", map[string]interface{}{"user_id": "u", "role": "ADMIN", "type": "access"}, false},
		{"refresh token", map[string]interface{}{"user_id": "u", "role": "ADMIN", "type": "refresh"}, true},
		{"missing user", map[string]interface{}{"role": "ADMIN", "type": "access"}, true},
		{"unknown role", map[string]interface{}{"user_id": "u", "role": "owner", "type": "access"}, true},
		{"numeric employee id", map[string]interface{}{"user_id": "u", "role": "EMPLOYEE", "type": "access", "employee_id": 7}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseClaims(tc.claims)
			if tc.wantErr {
				assert.ErrorIs(t, err, user.ErrInvalidToken)
				return
			}
			assert.NoError(t, err)
		})
	}
}
