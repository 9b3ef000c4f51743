package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
)

func TestRegisterIsValid(t *testing.T) {
	valid := dto.Register{FullName: "Ana", Email: "ana@x.com", Password: "pw1", Roles: []string{"courier"}}
	assert.NoError(t, valid.IsValid())

	err := dto.Register{}.IsValid()
	assert.ErrorContains(t, err, "nomeCompleto")
	assert.ErrorContains(t, err, "email")
	assert.ErrorContains(t, err, "senha")
	assert.ErrorContains(t, err, "perfis")

	noRoles := valid
	noRoles.Roles = nil
	assert.ErrorContains(t, noRoles.IsValid(), "perfis")
}

func TestLoginIsValid(t *testing.T) {
	assert.NoError(t, dto.Login{Email: "ana@x.com", Password: "pw1"}.IsValid())
	assert.ErrorContains(t, dto.Login{Password: "pw1"}.IsValid(), "email")
	assert.ErrorContains(t, dto.Login{Email: "ana@x.com"}.IsValid(), "senha")
}

func TestCreateDeliveryIsValid(t *testing.T) {
	valid := dto.CreateDelivery{Amount: 35.5, Origin: "Rua A", Destination: "Av. B"}
	assert.NoError(t, valid.IsValid())

	zeroAmount := valid
	zeroAmount.Amount = 0
	assert.ErrorContains(t, zeroAmount.IsValid(), "valor")

	negativeAmount := valid
	negativeAmount.Amount = -5
	assert.ErrorContains(t, negativeAmount.IsValid(), "valor")

	noRoute := dto.CreateDelivery{Amount: 10}
	err := noRoute.IsValid()
	assert.ErrorContains(t, err, "origem")
	assert.ErrorContains(t, err, "destino")
}
