package services

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

// PasswordParams are the argon2id cost settings encoded into every hash.
type PasswordParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  int
	KeyLength   int
}

var DefaultPasswordParams = PasswordParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

const argon2Prefix = "$argon2id$"

var errMalformedHash = errors.New("malformed argon2id hash")

func (t TokenService) HashPassword(raw string) (string, error) {
	return DefaultPasswordParams.hash(raw)
}

// VerifyPassword accepts argon2id hashes and bcrypt hashes from older
// admin imports.
func (t TokenService) VerifyPassword(raw, hashed string) bool {
	if !strings.HasPrefix(hashed, argon2Prefix) {
		return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
	}
	params, salt, want, err := decodeHash(hashed)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(raw), salt, params.Iterations, params.Memory, params.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// NeedsRehash reports whether a stored hash is bcrypt or uses weaker
// argon2id settings than DefaultPasswordParams.
func (t TokenService) NeedsRehash(hashed string) bool {
	params, _, _, err := decodeHash(hashed)
	if err != nil {
		return true
	}
	return params.Memory < DefaultPasswordParams.Memory ||
		params.Iterations < DefaultPasswordParams.Iterations ||
		params.KeyLength < DefaultPasswordParams.KeyLength
}

func (p PasswordParams) hash(raw string) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(raw), salt, p.Iterations, p.Memory, p.Parallelism, uint32(p.KeyLength))
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// decodeHash splits "$argon2id$v=19$m=..,t=..,p=..$salt$key".
func decodeHash(encoded string) (PasswordParams, []byte, []byte, error) {
	if !strings.HasPrefix(encoded, argon2Prefix) {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	fields := strings.Split(strings.TrimPrefix(encoded, argon2Prefix), "$")
	if len(fields) != 4 {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil || version != argon2.Version {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	var params PasswordParams
	if _, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(fields[2])
	if err != nil {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil || len(key) == 0 {
		return PasswordParams{}, nil, nil, errMalformedHash
	}
	params.SaltLength = len(salt)
	params.KeyLength = len(key)
	return params, salt, key, nil
}
