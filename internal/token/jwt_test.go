package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKeys serves PEM material from memory. Empty slices model absence.
type memKeys struct {
	priv []byte
	pub  []byte
}

func (m memKeys) PrivateKey() ([]byte, bool) { return m.priv, len(m.priv) > 0 }
func (m memKeys) PublicKey() ([]byte, bool)  { return m.pub, len(m.pub) > 0 }

func newTestKeys(t *testing.T) memKeys {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	priv := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pub := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return memKeys{priv: priv, pub: pub}
}

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("cms-auth-test", newTestKeys(t))

	raw, err := codec.Issue(42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, ok := codec.VerifyAndDecode(raw)
	require.True(t, ok)
	assert.Equal(t, "cms-auth-test", claims.Issuer)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.False(t, claims.IssuedAt.IsZero())
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestCodecRejectsExpired(t *testing.T) {
	codec := NewCodec("cms-auth-test", newTestKeys(t))

	raw, err := codec.Issue(7, -time.Second)
	require.NoError(t, err)

	_, ok := codec.VerifyAndDecode(raw)
	assert.False(t, ok, "an already expired token must not verify")
}

func TestCodecRejectsForeignSignature(t *testing.T) {
	signer := NewCodec("cms-auth-test", newTestKeys(t))
	verifier := NewCodec("cms-auth-test", newTestKeys(t))

	raw, err := signer.Issue(7, time.Hour)
	require.NoError(t, err)

	_, ok := verifier.VerifyAndDecode(raw)
	assert.False(t, ok, "a token signed with a different key must not verify")
}

func TestCodecRejectsNonRSAMethod(t *testing.T) {
	keys := newTestKeys(t)
	codec := NewCodec("cms-auth-test", keys)

	// HS256 token whose secret is the public PEM itself. Without the
	// method check this is the classic algorithm-confusion forgery.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":     "cms-auth-test",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"user_id": 1,
	}).SignedString(keys.pub)
	require.NoError(t, err)

	_, ok := codec.VerifyAndDecode(forged)
	assert.False(t, ok)
}

func TestCodecIssueWithoutPrivateKey(t *testing.T) {
	keys := newTestKeys(t)
	codec := NewCodec("cms-auth-test", memKeys{pub: keys.pub})

	_, err := codec.Issue(1, time.Hour)
	assert.ErrorIs(t, err, ErrNoPrivateKey)
}

func TestCodecVerifyWithoutPublicKey(t *testing.T) {
	keys := newTestKeys(t)
	signer := NewCodec("cms-auth-test", keys)
	verifier := NewCodec("cms-auth-test", memKeys{priv: keys.priv})

	raw, err := signer.Issue(1, time.Hour)
	require.NoError(t, err)

	_, ok := verifier.VerifyAndDecode(raw)
	assert.False(t, ok)
}

func TestCodecStringUserID(t *testing.T) {
	keys := newTestKeys(t)
	codec := NewCodec("cms-auth-test", keys)

	priv, err := jwt.ParseRSAPrivateKeyFromPEM(keys.priv)
	require.NoError(t, err)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":     "cms-auth-test",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
		"user_id": "99",
	}).SignedString(priv)
	require.NoError(t, err)

	claims, ok := codec.VerifyAndDecode(raw)
	require.True(t, ok)
	assert.Equal(t, uint64(99), claims.UserID)
}

func TestExtractFromRequest(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"no header", "", "", false},
		{"plain bearer", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc", "abc", true},
		{"wrong scheme", "Basic abc", "", false},
		{"missing token", "Bearer", "", false},
		{"extra parts", "Bearer a b", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			got, ok := ExtractFromRequest(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
