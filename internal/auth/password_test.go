package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/criminaldb/internal/config"
)

func TestPlainCodec(t *testing.T) {
	codec := PlainCodec{}

	stored, err := codec.Encode("s3cret")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if stored != "s3cret" {
		t.Errorf("Encode() = %q, want the password verbatim", stored)
	}
	if !codec.Matches(stored, "s3cret") {
		t.Error("Matches() = false for the right password")
	}
	if codec.Matches(stored, "S3cret") {
		t.Error("Matches() = true for a password differing in case")
	}
	if codec.Matches(stored, "") {
		t.Error("Matches() = true for an empty password")
	}
}

func TestBcryptCodec(t *testing.T) {
	codec := BcryptCodec{Cost: bcrypt.MinCost}

	stored, err := codec.Encode("s3cret")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if stored == "s3cret" {
		t.Fatal("Encode() stored the password verbatim")
	}
	if !strings.HasPrefix(stored, "$2") {
		t.Errorf("Encode() = %q, want a bcrypt hash", stored)
	}
	if !codec.Matches(stored, "s3cret") {
		t.Error("Matches() = false for the right password")
	}
	if codec.Matches(stored, "wrong") {
		t.Error("Matches() = true for a wrong password")
	}
	if codec.Matches("s3cret", "s3cret") {
		t.Error("Matches() = true against a plaintext row")
	}
}

func TestBcryptCodec_TooLong(t *testing.T) {
	codec := BcryptCodec{Cost: bcrypt.MinCost}

	if _, err := codec.Encode(strings.Repeat("a", 72)); err != nil {
		t.Errorf("Encode(72 bytes) error = %v", err)
	}
	if _, err := codec.Encode(strings.Repeat("a", 73)); err != ErrPasswordTooLong {
		t.Errorf("Encode(73 bytes) error = %v, want %v", err, ErrPasswordTooLong)
	}
}

func TestNewPasswordCodec(t *testing.T) {
	if _, ok := NewPasswordCodec(config.Auth{PasswordStorage: config.PasswordStoragePlain}).(PlainCodec); !ok {
		t.Error("plain storage should use PlainCodec")
	}
	codec, ok := NewPasswordCodec(config.Auth{PasswordStorage: config.PasswordStorageBcrypt, BcryptCost: 11}).(BcryptCodec)
	if !ok {
		t.Fatal("bcrypt storage should use BcryptCodec")
	}
	if codec.Cost != 11 {
		t.Errorf("Cost = %d, want 11", codec.Cost)
	}
}
