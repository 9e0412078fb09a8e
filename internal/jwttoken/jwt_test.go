package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"registrar/pkg/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("test-key", "registrar", "registrar-admin")

	token, err := svc.GenerateToken(domain.UserID(42), domain.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(42), claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewService("key-one", "registrar", "registrar-admin")
	verifier := NewService("key-two", "registrar", "registrar-admin")

	token, err := issuer.GenerateToken(domain.UserID(1), domain.RoleStandard, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-key", "registrar", "registrar-admin")

	token, err := svc.GenerateToken(domain.UserID(1), domain.RoleStandard, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-key", "registrar", "registrar-admin")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
