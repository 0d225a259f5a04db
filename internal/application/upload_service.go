package application

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realestate-api/internal/domain/entity"
	"github.com/oksasatya/realestate-api/pkg/helpers"
)

// Upload providers.
const (
	ProviderCloudinary = "cloudinary"
	ProviderGCS        = "gcs"
)

// UploadService issues short-lived credentials for direct client-to-store
// uploads. The backend never relays the file bytes; the client uploads
// straight to the store and sends the resulting URL back when it creates or
// updates a listing.
type UploadService struct {
	Provider string
	Folder   string
	TTL      time.Duration

	CloudName string
	APIKey    string
	APISecret string

	GCS       *storage.Client
	GCSBucket string

	Logger *logrus.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

func NewUploadService(provider, folder string, ttl time.Duration, cloudName, apiKey, apiSecret string, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *UploadService {
	return &UploadService{
		Provider:  provider,
		Folder:    folder,
		TTL:       ttl,
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Logger:    logger,
		now:       time.Now,
	}
}

// UploadCredential is returned to the caller; which fields are populated
// depends on the provider.
type UploadCredential struct {
	Provider string `json:"provider"`

	// Cloudinary
	Signature string `json:"signature,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	CloudName string `json:"cloud_name,omitempty"`
	Folder    string `json:"folder,omitempty"`

	// GCS
	UploadURL  string    `json:"upload_url,omitempty"`
	ObjectPath string    `json:"object_path,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// SignUploadParams computes the Cloudinary-style signature: parameters sorted
// by key, joined as k=v with '&', the API secret appended, SHA-1 hex digest.
//
// The store re-derives the digest from the parameters the client actually
// sends, so the signed set and the sent set must be identical. Signing a
// parameter the client omits (or vice versa) makes every verification fail.
func SignUploadParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// Issue returns a credential for the principal. folder overrides the
// configured default when non-empty; it is always echoed back because the
// client must send the exact scope the signature covers.
func (s *UploadService) Issue(principal entity.Principal, folder string) (*UploadCredential, error) {
	if principal.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if folder == "" {
		folder = s.Folder
	}

	switch s.Provider {
	case ProviderGCS:
		return s.issueGCS(principal, folder)
	case ProviderCloudinary, "":
		return s.issueCloudinary(folder)
	default:
		return nil, fmt.Errorf("unknown upload provider %q", s.Provider)
	}
}

func (s *UploadService) issueCloudinary(folder string) (*UploadCredential, error) {
	if s.CloudName == "" || s.APIKey == "" || s.APISecret == "" {
		return nil, ErrNotConfigured
	}
	ts := s.now().Unix()
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(ts, 10),
	}
	return &UploadCredential{
		Provider:  ProviderCloudinary,
		Signature: SignUploadParams(params, s.APISecret),
		Timestamp: ts,
		APIKey:    s.APIKey,
		CloudName: s.CloudName,
		Folder:    folder,
	}, nil
}

func (s *UploadService) issueGCS(principal entity.Principal, folder string) (*UploadCredential, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrNotConfigured
	}
	expires := s.now().Add(s.TTL)
	objectPath := path.Join(folder, principal.UserID, uuid.NewString())
	url, err := helpers.SignedUploadURL(s.GCS, s.GCSBucket, objectPath, "", expires)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("gcs signed url failed")
		}
		return nil, err
	}
	return &UploadCredential{
		Provider:   ProviderGCS,
		UploadURL:  url,
		ObjectPath: objectPath,
		ExpiresAt:  expires,
	}, nil
}
