// Package password turns plaintext passwords into one-way digests and checks
// plaintext candidates against them.
package password

import "fmt"

// Hasher is the capability the auth use cases consume. Verify returns
// (false, nil) on a plain mismatch and an error only for unreadable digests.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// New returns the Hasher for scheme. bcryptCost is ignored for argon2id.
func New(scheme string, bcryptCost int) (Hasher, error) {
	switch scheme {
	case SchemeBcrypt:
		return NewBcrypt(bcryptCost)
	case SchemeArgon2id:
		return NewArgon2(DefaultArgon2Config())
	default:
		return nil, fmt.Errorf("unsupported password scheme %q", scheme)
	}
}
