package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asha-billing/pkg/jwt"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "counter-1", jwt.RoleOperator, "asha-billing", 5)
	require.NoError(t, err)

	user, role, err := jwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "counter-1", user)
	assert.Equal(t, jwt.RoleOperator, role)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := jwt.Generate("s3cret", "counter-1", jwt.RoleAdmin, "asha-billing", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("other", tok)
	assert.Error(t, err)

	expired, err := jwt.Generate("s3cret", "counter-1", jwt.RoleAdmin, "asha-billing", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse("s3cret", expired)
	assert.Error(t, err)

	_, err = jwt.Generate("", "u", jwt.RoleAdmin, "i", 5)
	assert.Error(t, err)
}
