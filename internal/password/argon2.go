package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errBadDigest = errors.New("argon2id: malformed digest")

type Argon2Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2 produces PHC-formatted digests:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt>$<hash>
type Argon2 struct {
	cfg Argon2Config
}

func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	switch {
	case cfg.Memory < 8*1024:
		return nil, errors.New("argon2id memory must be >= 8192 KiB")
	case cfg.Time < 1:
		return nil, errors.New("argon2id time must be >= 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("argon2id parallelism must be >= 1")
	case cfg.SaltLength < 16:
		return nil, errors.New("argon2id salt length must be >= 16")
	case cfg.KeyLength < 16:
		return nil, errors.New("argon2id key length must be >= 16")
	}
	return &Argon2{cfg: cfg}, nil
}

func (a *Argon2) Hash(plain string) (string, error) {
	salt := make([]byte, a.cfg.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("argon2id salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, a.cfg.Time, a.cfg.Memory, a.cfg.Parallelism, a.cfg.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		SchemeArgon2id,
		argon2.Version,
		a.cfg.Memory, a.cfg.Time, a.cfg.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (a *Argon2) Verify(plain, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != SchemeArgon2id {
		return false, errBadDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errBadDigest
	}

	var (
		memory, time uint32
		parallelism  uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		return false, errBadDigest
	}
	if memory == 0 || time == 0 || parallelism == 0 {
		return false, errBadDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, errBadDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, errBadDigest
	}

	got := argon2.IDKey([]byte(plain), salt, time, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
