package authentication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCredentialsRoundTrip(t *testing.T) {
	keyring.MockInit()

	creds, err := GetCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, StoreCredentials(&StoredCredentials{Token: "tok", UserID: "u1", Name: "Ada", Email: "ada@example.com"}))

	creds, err = GetCredentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok", creds.Token)
	assert.Equal(t, "Ada", creds.Name)

	require.NoError(t, DeleteCredentials())
	require.NoError(t, DeleteCredentials())

	creds, err = GetCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}
