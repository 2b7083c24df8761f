// Package password hashes and verifies account credentials.
//
// New hashes are Argon2id. Values that already carry a known scheme prefix
// are never hashed again, so persisting a user twice keeps the same hash.
// Verification also understands bcrypt and the pbkdf2_sha256 format of
// accounts imported from the previous platform.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	prefixArgon2id     = "$argon2id$"
	prefixArgon2       = "argon2"
	prefixPBKDF2SHA256 = "pbkdf2_sha256$"
	prefixBcryptSHA256 = "bcrypt_sha256$"
	prefixBcrypt       = "bcrypt"
	prefixBcrypt2a     = "$2a$"
	prefixBcrypt2b     = "$2b$"
	prefixBcrypt2y     = "$2y$"

	pbkdf2KeyLen = 32
	pbkdf2Parts  = 4
)

var (
	// ErrEmptyPassword is returned when hashing an empty value.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrUnknownScheme is returned when a stored hash has no supported prefix.
	ErrUnknownScheme = errors.New("unknown password hash scheme")

	// ErrMalformedHash is returned when a stored hash cannot be decoded.
	ErrMalformedHash = errors.New("malformed password hash")
)

// knownPrefixes are the scheme prefixes recognised as already hashed.
var knownPrefixes = []string{
	prefixArgon2id,
	prefixArgon2,
	prefixPBKDF2SHA256,
	prefixBcrypt,
	prefixBcrypt2a,
	prefixBcrypt2b,
	prefixBcrypt2y,
}

// Params are the Argon2id parameters used for new hashes.
var Params = argon2id.DefaultParams

// IsHashed reports whether value already looks like a password hash.
func IsHashed(value string) bool {
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}

	return false
}

// Hash returns an Argon2id hash of plain.
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := argon2id.CreateHash(plain, Params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hashed, nil
}

// Ensure hashes value unless it is already a hash.
func Ensure(value string) (string, error) {
	if value == "" || IsHashed(value) {
		return value, nil
	}

	return Hash(value)
}

// Verify compares plain against hashed in constant time.
// A false result with a nil error means the password did not match.
func Verify(plain, hashed string) (bool, error) {
	switch {
	case strings.HasPrefix(hashed, prefixArgon2id):
		return argon2id.ComparePasswordAndHash(plain, hashed)

	case strings.HasPrefix(hashed, prefixArgon2):
		// argon2$argon2id$v=19$...
		return argon2id.ComparePasswordAndHash(plain, strings.TrimPrefix(hashed, prefixArgon2))

	case strings.HasPrefix(hashed, prefixPBKDF2SHA256):
		return verifyPBKDF2(plain, hashed)

	case strings.HasPrefix(hashed, prefixBcryptSHA256):
		digest := sha256.Sum256([]byte(plain))
		return verifyBcrypt(hex.EncodeToString(digest[:]), stripAlgorithm(hashed, "bcrypt_sha256"))

	case strings.HasPrefix(hashed, prefixBcrypt):
		return verifyBcrypt(plain, stripAlgorithm(hashed, prefixBcrypt))

	case strings.HasPrefix(hashed, prefixBcrypt2a),
		strings.HasPrefix(hashed, prefixBcrypt2b),
		strings.HasPrefix(hashed, prefixBcrypt2y):
		return verifyBcrypt(plain, hashed)
	}

	return false, ErrUnknownScheme
}

// stripAlgorithm removes a leading algorithm name and its "$" separator,
// e.g. "bcrypt$$2b$12$..." and "bcrypt$2b$12$..." both become "$2b$12$...".
func stripAlgorithm(hashed, algorithm string) string {
	rest := strings.TrimPrefix(hashed, algorithm)
	if strings.HasPrefix(rest, "$$") {
		rest = rest[1:]
	}

	return rest
}

func verifyBcrypt(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	return true, nil
}

// verifyPBKDF2 checks "pbkdf2_sha256$<iterations>$<salt>$<base64 key>".
func verifyPBKDF2(plain, hashed string) (bool, error) {
	parts := strings.Split(hashed, "$")
	if len(parts) != pbkdf2Parts {
		return false, ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false, ErrMalformedHash
	}

	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}

	keyLen := len(want)
	if keyLen == 0 {
		keyLen = pbkdf2KeyLen
	}

	got := pbkdf2.Key([]byte(plain), []byte(parts[2]), iterations, keyLen, sha256.New)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// EncodePBKDF2 builds a pbkdf2_sha256 hash. It exists for importing and
// testing legacy accounts; new credentials always use Hash.
func EncodePBKDF2(plain, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), iterations, pbkdf2KeyLen, sha256.New)

	return fmt.Sprintf("%s%d$%s$%s", prefixPBKDF2SHA256, iterations, salt, base64.StdEncoding.EncodeToString(key))
}
