package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Validation must stay purely syntactic. Resolving the address's
// domain would make register and login depend on outbound DNS.
func TestRegisterAgentRequestValidate(t *testing.T) {
	valid := RegisterAgentRequest{
		Email:    "agent@furnishop.com",
		Password: "super-secret-1",
		FullName: "Linh Tran",
		Role:     RoleAgent,
	}

	t.Run("accepts well-formed email without network access", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("accepts email on an unregistered domain", func(t *testing.T) {
		req := valid
		req.Email = "a@b.com"
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects short password", func(t *testing.T) {
		req := valid
		req.Password = "short"
		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		req := valid
		req.Role = "admin"
		assert.Error(t, req.Validate())
	})

	t.Run("empty role is allowed and defaulted later", func(t *testing.T) {
		req := valid
		req.Role = ""
		assert.NoError(t, req.Validate())
	})
}

func TestLoginRequestValidate(t *testing.T) {
	t.Run("accepts well-formed credentials", func(t *testing.T) {
		req := LoginRequest{Email: "agent@furnishop.com", Password: "super-secret-1"}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		req := LoginRequest{Email: "@@", Password: "super-secret-1"}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects missing password", func(t *testing.T) {
		req := LoginRequest{Email: "agent@furnishop.com"}
		assert.Error(t, req.Validate())
	})
}
