// Package secret encrypts API keys for storage in the config file.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the size of the salt in bytes
	SaltSize = 16

	// NonceSize is the size of the nonce for AES-GCM
	NonceSize = 12

	// KeySize is the size of the derived key (AES-256)
	KeySize = 32

	// PBKDF2Iterations is the number of iterations for key derivation
	PBKDF2Iterations = 100000

	// MinPassphraseLength is the shortest accepted passphrase, in characters
	MinPassphraseLength = 4

	version = "v1:"
)

var (
	// ErrWeakPassphrase is returned when the passphrase is too short
	ErrWeakPassphrase = fmt.Errorf("passphrase must be at least %d characters", MinPassphraseLength)

	// ErrDecryptionFailed is returned when decryption fails (wrong passphrase or corrupted data)
	ErrDecryptionFailed = errors.New("decryption failed: wrong passphrase or corrupted data")

	// ErrInvalidData is returned when the encrypted data format is invalid
	ErrInvalidData = errors.New("invalid encrypted data format")
)

// ValidatePassphrase checks the passphrase length.
func ValidatePassphrase(passphrase string) error {
	if utf8.RuneCountInString(passphrase) < MinPassphraseLength {
		return ErrWeakPassphrase
	}
	return nil
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, PBKDF2Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext with AES-256-GCM under a key derived from the
// passphrase. label is bound as additional data, so a blob only decrypts
// under the same label (the provider name). The result is
// "v1:" + base64(salt + nonce + ciphertext).
func Encrypt(plaintext, passphrase, label string) (string, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return "", err
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(plaintext), []byte(label))

	combined := make([]byte, 0, SaltSize+NonceSize+len(ciphertext))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, ciphertext...)

	return version + base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt opens a blob produced by Encrypt.
func Decrypt(encrypted, passphrase, label string) (string, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return "", err
	}

	payload, ok := strings.CutPrefix(encrypted, version)
	if !ok {
		return "", ErrInvalidData
	}
	combined, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidData
	}

	// salt + nonce + at least the 16-byte GCM tag
	if len(combined) < SaltSize+NonceSize+16 {
		return "", ErrInvalidData
	}

	salt := combined[:SaltSize]
	nonce := combined[SaltSize : SaltSize+NonceSize]
	ciphertext := combined[SaltSize+NonceSize:]

	gcm, err := newGCM(deriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(label))
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
