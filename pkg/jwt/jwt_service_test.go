package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kayleschmoyer/DVIC/domain"
)

func newTestService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "DVIC"}
}

func TestGenerateAndParseToken(t *testing.T) {
	service := newTestService()

	token := service.GenerateTokenMechanic(12, "sam@shop.test", domain.RoleMechanic)
	assert.NotEmpty(t, token)

	mechanicID, role, err := service.GetMechanicByToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(12), mechanicID)
	assert.Equal(t, domain.RoleMechanic, role)
}

func TestValidateToken_Garbage(t *testing.T) {
	service := newTestService()

	_, _, err := service.GetMechanicByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service := newTestService()
	other := &jwtService{secretKey: "other-secret", issuer: "DVIC"}

	token := service.GenerateTokenMechanic(12, "sam@shop.test", domain.RoleMechanic)
	_, _, err := other.GetMechanicByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
