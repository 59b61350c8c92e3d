// Package token implements the access token codec and the token pair issuer.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoPrivateKey is returned by Issue when no private key is loaded. It is
// a configuration error: the process cannot sign tokens at all.
var ErrNoPrivateKey = errors.New("token: private key is not configured")

const bearerPrefix = "Bearer"

// KeySource supplies PEM key material. Absence means the corresponding
// operation is unavailable.
type KeySource interface {
	PrivateKey() ([]byte, bool)
	PublicKey() ([]byte, bool)
}

// Claims is the decoded access token payload.
type Claims struct {
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	UserID    uint64
}

// Codec signs and verifies RS256 access tokens carrying an issuer, issue and
// expiry instants and the subject user id.
type Codec struct {
	issuer string
	keys   KeySource
}

// NewCodec returns a codec stamping tokens with the given issuer.
func NewCodec(issuer string, keys KeySource) *Codec {
	return &Codec{issuer: issuer, keys: keys}
}

// Issue builds and signs an access token for the user with the given TTL.
func (c *Codec) Issue(userID uint64, ttl time.Duration) (string, error) {
	pemKey, ok := c.keys.PrivateKey()
	if !ok {
		return "", ErrNoPrivateKey
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
	if err != nil {
		return "", fmt.Errorf("token: parse private key: %w", err)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":     c.issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"user_id": userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// ExtractFromRequest pulls the bearer token out of the Authorization header.
// The header must consist of exactly two space-separated parts with a
// case-insensitive "Bearer" scheme; anything else reports absence.
func ExtractFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
		return "", false
	}
	return parts[1], true
}

// VerifyAndDecode checks the signature and expiry of a raw token and returns
// its claims. Every failure mode, including an absent public key, a bad
// signature, a foreign signing method, an expired token or a malformed
// payload, reports absence. It never returns an error: nothing past this
// boundary may throw.
func (c *Codec) VerifyAndDecode(raw string) (Claims, bool) {
	pemKey, ok := c.keys.PublicKey()
	if !ok {
		return Claims{}, false
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pemKey)
	if err != nil {
		return Claims{}, false
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %q", t.Method.Alg())
		}
		return pub, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, false
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, false
	}

	var out Claims
	out.Issuer, _ = mc["iss"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.UserID = asUserID(mc["user_id"])
	return out, true
}

// asUserID tolerates both the numeric encoding produced by this codec and a
// string encoding some older clients carry.
func asUserID(v interface{}) uint64 {
	switch t := v.(type) {
	case float64:
		if t > 0 {
			return uint64(t)
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
