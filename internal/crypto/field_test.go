package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func initTestKey(t *testing.T) {
	t.Helper()
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand: %v", err)
	}
	if err := Init(base64.StdEncoding.EncodeToString(key)); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

func TestInitRejectsBadKeys(t *testing.T) {
	if err := Init("not-base64!!!"); err == nil {
		t.Error("expected error for undecodable key")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	if err := Init(short); err == nil {
		t.Error("expected error for short key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	initTestKey(t)

	plaintexts := []string{
		"Well pad 14, CR 210, Midland TX",
		"",
		"replaced pump seal; 2.5h on site",
		"üñïçødé ✓",
	}

	for _, plaintext := range plaintexts {
		sealed, err := Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plaintext, err)
		}
		opened, err := Decrypt(sealed)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if opened != plaintext {
			t.Errorf("round trip: got %q, want %q", opened, plaintext)
		}
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	initTestKey(t)

	first, err := Encrypt("same text")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	second, err := Encrypt("same text")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if first == second {
		t.Error("two encryptions of the same plaintext should differ")
	}
}

func TestDecryptRejectsTampering(t *testing.T) {
	initTestKey(t)

	sealed, err := Encrypt("sensitive")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := Decrypt(tampered); err == nil {
		t.Error("expected error for tampered ciphertext")
	}

	if _, err := Decrypt("@@not base64@@"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestEncryptedStringScanAndValue(t *testing.T) {
	initTestKey(t)

	field := EncryptedString("pump jack #3")
	stored, err := field.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if stored.(string) == string(field) {
		t.Error("stored value should not be plaintext")
	}

	var loaded EncryptedString
	if err := loaded.Scan(stored); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if loaded != field {
		t.Errorf("Scan = %q, want %q", loaded, field)
	}

	// Empty values pass through without ciphertext.
	var empty EncryptedString
	stored, err = empty.Value()
	if err != nil {
		t.Fatalf("Value(empty): %v", err)
	}
	if stored.(string) != "" {
		t.Errorf("empty value stored as %q", stored)
	}
	if err := loaded.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if loaded != "" {
		t.Errorf("Scan(nil) = %q, want empty", loaded)
	}
}
