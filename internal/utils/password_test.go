package utils

import (
	"regexp"
	"testing"
)

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("GenerateOTP() = %q, want six digits", code)
		}
	}
}

func TestOTPHashRoundtrip(t *testing.T) {
	hash, err := HashOTP("483920")
	if err != nil {
		t.Fatalf("HashOTP: %v", err)
	}
	if !CheckOTP(hash, "483920") {
		t.Error("correct code rejected")
	}
	if CheckOTP(hash, "000000") {
		t.Error("wrong code accepted")
	}
}
