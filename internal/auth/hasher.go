package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hasher turns plaintext passwords into storable digests:
// hex(sha256(password + secret)). The process secret acts as a global salt;
// there is no per-credential salt and no slow KDF, so the scheme stays
// byte-compatible with digests already in the store.
// TODO: migrate stored digests to bcrypt behind an explicit re-provisioning
// step, this cannot be changed in place without invalidating existing admins.
type Hasher struct {
	secret string
}

func NewHasher(secret string) *Hasher {
	return &Hasher{secret: secret}
}

func (h *Hasher) Hash(password string) string {
	sum := sha256.Sum256([]byte(password + h.secret))
	return hex.EncodeToString(sum[:])
}

// Check compares the freshly computed digest against the stored one in
// constant time.
func (h *Hasher) Check(password, digest string) bool {
	computed := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
