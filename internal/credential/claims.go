package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Claims is the JWT payload the backend issues. Only the claims the
// client displays or checks are decoded; the signature is the backend's
// concern and is not verified here.
type Claims struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// DecodeClaims extracts the payload of a JWT without verifying it.
func DecodeClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed token: expected 3 segments, got %d", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decoding token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parsing token payload: %w", err)
	}

	return &claims, nil
}

// Expired reports whether the token's expiry has passed. A token without
// an exp claim never reads as expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return now.Unix() >= c.ExpiresAt
}
