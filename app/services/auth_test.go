package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pecaforte/inventory/app/services"
	"github.com/pecaforte/inventory/pkg/auth"
)

func TestAuthorizerLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	az := services.NewAuthorizer(hash)

	token, err := az.Login("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Role)
}

func TestAuthorizerRejectsWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	_, err = services.NewAuthorizer(hash).Login("wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthorizerWithoutHashStaysLocked(t *testing.T) {
	_, err := services.NewAuthorizer("").Login("anything")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
