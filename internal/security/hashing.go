package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hash algorithms.
const (
	AlgoArgon2id = "argon2id"
	AlgoBcrypt   = "bcrypt"
)

// Argon2id parameters. Hashes written with different parameters still verify,
// the parameters are read back from the stored PHC string.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

var (
	// ErrPasswordMismatch is returned by Compare when the password does not match the hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrPasswordTooLong is returned by Hash when the algorithm cannot hash the whole password.
	ErrPasswordTooLong = errors.New("password too long")
	// ErrUnsupportedHash is returned by Compare when the stored hash has an unknown format.
	ErrUnsupportedHash = errors.New("unsupported password hash format")
)

// Hasher hashes and verifies passwords. New hashes use Algo; Compare accepts
// both argon2id (PHC string) and bcrypt hashes so stored credentials survive
// an algorithm switch. Callers must not log or persist plaintext passwords.
type Hasher struct {
	Algo string
	Cost int
}

// NewHasher returns a Hasher for algo ("argon2id" or "bcrypt"; anything else
// falls back to argon2id). cost is the bcrypt cost, clamped to 4–31.
func NewHasher(algo string, cost int) *Hasher {
	if algo != AlgoBcrypt {
		algo = AlgoArgon2id
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Algo: algo, Cost: cost}
}

// BcryptMaxPasswordBytes is the longest password bcrypt accepts.
const BcryptMaxPasswordBytes = 72

// Hash produces a salted hash of password suitable for storage.
func (h *Hasher) Hash(password []byte) (string, error) {
	if h.Algo == AlgoBcrypt {
		if len(password) > BcryptMaxPasswordBytes {
			return "", ErrPasswordTooLong
		}
		b, err := bcrypt.GenerateFromPassword(password, h.Cost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return hashArgon2id(password)
}

// Compare verifies password against the stored hash in constant time.
// Returns nil on match, ErrPasswordMismatch on mismatch, or a decoding error.
func (h *Hasher) Compare(hash string, password []byte) error {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return compareArgon2id(hash, password)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		err := bcrypt.CompareHashAndPassword([]byte(hash), password)
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	default:
		return ErrUnsupportedHash
	}
}

// hashArgon2id returns $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>.
func hashArgon2id(password []byte) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func compareArgon2id(encoded string, password []byte) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: malformed argon2id hash", ErrUnsupportedHash)
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return fmt.Errorf("%w: argon2 version %d", ErrUnsupportedHash, version)
	}
	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("parsing parameters: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("decoding salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("decoding hash: %w", err)
	}
	candidate := argon2.IDKey(password, salt, iterations, memory, threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, candidate) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
