package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/shared/authorization"
)

func TestJWTService_AccessRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", 30)

	token, exp, err := svc.Generate("usr_1", authorization.RoleAgent, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := svc.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", claims.UserID)
	assert.Equal(t, authorization.RoleAgent, claims.Role)

	_, err = svc.VerifyBlob(token)
	assert.Error(t, err, "access tokens cannot download blobs")
}

func TestJWTService_BlobTokens(t *testing.T) {
	svc := NewJWTService("secret", 30)

	token, _, err := svc.GenerateBlob("tickets/tkt_1/1_a.png", time.Minute)
	require.NoError(t, err)

	path, err := svc.VerifyBlob(token)
	require.NoError(t, err)
	assert.Equal(t, "tickets/tkt_1/1_a.png", path)

	_, err = svc.VerifyAccess(token)
	assert.Error(t, err)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", 30)

	expired, _, err := svc.GenerateBlob("tickets/tkt_1/x", -time.Minute)
	require.NoError(t, err)
	_, err = svc.VerifyBlob(expired)
	assert.Error(t, err)

	foreign, _, err := NewJWTService("other", 30).Generate("usr_1", authorization.RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = svc.VerifyAccess(foreign)
	assert.Error(t, err)

	_, err = svc.Verify("not-a-token")
	assert.Error(t, err)
}
