package password_test

import (
	"strings"
	"testing"

	"github.com/percefons/auth-service/internal/password"
	"golang.org/x/crypto/bcrypt"
)

func hashers(t *testing.T) map[string]password.Hasher {
	t.Helper()
	b, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}
	a, err := password.NewArgon2(password.Argon2Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}
	return map[string]password.Hasher{"bcrypt": b, "argon2id": a}
}

func TestHasher_HashAndVerify(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash("Str0ng!!Pass123")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if digest == "Str0ng!!Pass123" {
				t.Fatal("digest equals plaintext")
			}

			ok, err := h.Verify("Str0ng!!Pass123", digest)
			if err != nil || !ok {
				t.Fatalf("Verify(correct) = %v, %v; want true, nil", ok, err)
			}

			ok, err = h.Verify("Str0ng!!Pass124", digest)
			if err != nil || ok {
				t.Fatalf("Verify(wrong) = %v, %v; want false, nil", ok, err)
			}
		})
	}
}

func TestHasher_SaltsEachDigest(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			d1, _ := h.Hash("Str0ng!!Pass123")
			d2, _ := h.Hash("Str0ng!!Pass123")
			if d1 == d2 {
				t.Error("two digests of the same password are identical")
			}
		})
	}
}

func TestHasher_LongPasswords(t *testing.T) {
	long := strings.Repeat("Ab1!", 32) // 128 bytes, past bcrypt's 72-byte limit
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			digest, err := h.Hash(long)
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if ok, err := h.Verify(long, digest); err != nil || !ok {
				t.Fatalf("Verify(long) = %v, %v; want true, nil", ok, err)
			}
			if ok, _ := h.Verify(long[:127]+"?", digest); ok {
				t.Fatal("Verify accepted a different long password")
			}
		})
	}
}

func TestHasher_MalformedDigest(t *testing.T) {
	for name, h := range hashers(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify("Str0ng!!Pass123", "not-a-digest")
			if ok || err == nil {
				t.Fatalf("Verify(malformed) = %v, %v; want false, error", ok, err)
			}
		})
	}
}

func TestArgon2_PHCPrefix(t *testing.T) {
	h, err := password.NewArgon2(password.DefaultArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}
	digest, err := h.Hash("Str0ng!!Pass123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Errorf("unexpected PHC prefix: %s", digest)
	}
}

func TestNew(t *testing.T) {
	if _, err := password.New(password.SchemeBcrypt, 0); err != nil {
		t.Errorf("New(bcrypt) error = %v", err)
	}
	if _, err := password.New(password.SchemeArgon2id, 0); err != nil {
		t.Errorf("New(argon2id) error = %v", err)
	}
	if _, err := password.New("md5", 0); err == nil {
		t.Error("New(md5) should fail")
	}
	if _, err := password.NewBcrypt(64); err == nil {
		t.Error("NewBcrypt(64) should fail")
	}
}
