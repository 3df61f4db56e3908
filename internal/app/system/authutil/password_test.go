package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Tr3s-longue-phrase", nil},
		{"valid at min", "abcd1234", nil},
		{"valid at max", strings.Repeat("a", 72), nil},
		{"valid with spaces", "une phrase secrète", nil},

		{"too short", "abc1234", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"too long", strings.Repeat("a", 73), ErrPasswordTooLong},

		{"common", "motdepasse", ErrPasswordCommon},
		{"common uppercase", "AZERTYUIOP", ErrPasswordCommon},
		{"common digits", "12345678", ErrPasswordCommon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePassword(tt.password); err != tt.wantErr {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash does not look like bcrypt: %s", hash)
	}

	hash2, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatal(err)
	}
	if hash == hash2 {
		t.Error("same password produced the same hash")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword("wrong horse battery", hash) {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("anything", "not-a-hash") {
		t.Error("CheckPassword() accepted a malformed hash")
	}
}

func TestDummyHashNeverMatchesEmpty(t *testing.T) {
	if CheckPassword("", DummyHash()) {
		t.Error("empty password matched DummyHash")
	}
}
