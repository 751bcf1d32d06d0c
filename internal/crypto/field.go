// Package crypto provides column-level encryption for sensitive fields.
// Values are sealed with AES-256-GCM and stored base64-encoded, so the
// database never sees customer locations, work descriptions, or invoice
// line items in the clear.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"fmt"
)

var aead cipher.AEAD

// Init derives the package cipher from the configured key. The key must be
// 32 bytes, base64-encoded (standard or URL-safe). Must be called before
// any EncryptedString is read or written.
func Init(encodedKey string) error {
	key, err := decodeKey(encodedKey)
	if err != nil {
		return err
	}
	if len(key) != 32 {
		return fmt.Errorf("field encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aead, err = cipher.NewGCM(block)
	return err
}

func decodeKey(encoded string) ([]byte, error) {
	if key, err := base64.StdEncoding.DecodeString(encoded); err == nil {
		return key, nil
	}
	return base64.URLEncoding.DecodeString(encoded)
}

// Encrypt seals a plaintext string. Each call draws a fresh nonce, so equal
// plaintexts produce different ciphertexts.
func Encrypt(plaintext string) (string, error) {
	if aead == nil {
		return "", errors.New("field encryption not initialized")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func Decrypt(encoded string) (string, error) {
	if aead == nil {
		return "", errors.New("field encryption not initialized")
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(sealed) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// EncryptedString is a string column that is encrypted at rest. It holds
// plaintext in memory and transparently seals/opens on the database
// boundary via the Valuer and Scanner interfaces. Empty strings map to
// empty columns so optional fields stay queryable for presence.
type EncryptedString string

func (e EncryptedString) Value() (driver.Value, error) {
	if e == "" {
		return "", nil
	}
	return Encrypt(string(e))
}

func (e *EncryptedString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*e = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into EncryptedString", src)
	}

	if raw == "" {
		*e = ""
		return nil
	}

	plaintext, err := Decrypt(raw)
	if err != nil {
		return err
	}
	*e = EncryptedString(plaintext)
	return nil
}

// GormDataType keeps gorm from guessing a numeric column for the alias.
func (EncryptedString) GormDataType() string {
	return "text"
}
