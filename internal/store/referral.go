package store

import (
	"crypto/rand"
	"encoding/base32"
)

const referralCodeBytes = 5

// NewReferralCode returns a short random code assigned to a profile at
// creation time.
func NewReferralCode() (string, error) {
	buf := make([]byte, referralCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
