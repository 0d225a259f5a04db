package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
)

func newCloudinaryService(t *testing.T) *UploadService {
	t.Helper()
	svc := NewUploadService(ProviderCloudinary, "properties", time.Hour, "demo-cloud", "key-123", "secret-xyz", nil, "", nil)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func TestSignUploadParamsDeterministic(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000", "folder": "properties"}

	a := SignUploadParams(params, "secret-xyz")
	b := SignUploadParams(params, "secret-xyz")
	assert.Equal(t, a, b)
	assert.Len(t, a, 40) // sha1 hex

	// Digest of "folder=properties&timestamp=1700000000secret-xyz"
	assert.Equal(t, "73c15e64dbe37a6ad1986f8bccd38104663cf315", a)
}

func TestSignUploadParamsSensitivity(t *testing.T) {
	base := SignUploadParams(map[string]string{"folder": "properties", "timestamp": "1700000000"}, "secret-xyz")

	changedValue := SignUploadParams(map[string]string{"folder": "other", "timestamp": "1700000000"}, "secret-xyz")
	assert.NotEqual(t, base, changedValue)

	changedSecret := SignUploadParams(map[string]string{"folder": "properties", "timestamp": "1700000000"}, "another")
	assert.NotEqual(t, base, changedSecret)

	extraParam := SignUploadParams(map[string]string{"folder": "properties", "timestamp": "1700000000", "public_id": "x"}, "secret-xyz")
	assert.NotEqual(t, base, extraParam)
}

func TestIssueCloudinary(t *testing.T) {
	svc := newCloudinaryService(t)

	cred, err := svc.Issue(entity.Principal{UserID: "u1"}, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderCloudinary, cred.Provider)
	assert.Equal(t, "demo-cloud", cred.CloudName)
	assert.Equal(t, "key-123", cred.APIKey)
	assert.Equal(t, int64(1700000000), cred.Timestamp)
	assert.Equal(t, "properties", cred.Folder)

	// The credential must carry exactly the signed parameter set, so the
	// signature recomputed from the returned fields must match.
	expected := SignUploadParams(map[string]string{
		"folder":    cred.Folder,
		"timestamp": "1700000000",
	}, "secret-xyz")
	assert.Equal(t, expected, cred.Signature)
}

func TestIssueCloudinaryFolderOverride(t *testing.T) {
	svc := newCloudinaryService(t)

	cred, err := svc.Issue(entity.Principal{UserID: "u1"}, "avatars")
	require.NoError(t, err)
	assert.Equal(t, "avatars", cred.Folder)

	expected := SignUploadParams(map[string]string{"folder": "avatars", "timestamp": "1700000000"}, "secret-xyz")
	assert.Equal(t, expected, cred.Signature)
}

func TestIssueAnonymous(t *testing.T) {
	svc := newCloudinaryService(t)

	_, err := svc.Issue(entity.Principal{}, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestIssueUnconfigured(t *testing.T) {
	svc := NewUploadService(ProviderCloudinary, "properties", time.Hour, "", "", "", nil, "", nil)

	_, err := svc.Issue(entity.Principal{UserID: "u1"}, "")
	assert.ErrorIs(t, err, ErrNotConfigured)

	gcs := NewUploadService(ProviderGCS, "properties", time.Hour, "", "", "", nil, "", nil)
	_, err = gcs.Issue(entity.Principal{UserID: "u1"}, "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIssueUnknownProvider(t *testing.T) {
	svc := NewUploadService("s3", "properties", time.Hour, "", "", "", nil, "", nil)

	_, err := svc.Issue(entity.Principal{UserID: "u1"}, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
