package auth

import (
	"encoding/base64"
	"testing"
	"time"
)

var testSecret = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestNewCodecRejectsBadSecret(t *testing.T) {
	if _, err := NewCodec("not base64!!!", time.Minute); err == nil {
		t.Fatalf("expected error for undecodable secret")
	}
	if _, err := NewCodec("", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	codec, err := NewCodec(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := codec.Issue("user@example.com", []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !codec.Verify(token, "user@example.com") {
		t.Fatalf("fresh token failed verification")
	}
	if codec.Verify(token, "other@example.com") {
		t.Fatalf("token verified against the wrong subject")
	}
	if codec.Verify(token+"x", "user@example.com") {
		t.Fatalf("tampered token verified")
	}
	if codec.Verify("garbage", "user@example.com") {
		t.Fatalf("garbage verified")
	}
}

func TestExpiredTokenFailsVerifyButKeepsSubject(t *testing.T) {
	codec, err := NewCodec(testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := codec.Issue("stale@example.com", []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if codec.Verify(token, "stale@example.com") {
		t.Fatalf("expired token verified")
	}
	sub, ok := codec.Subject(token)
	if !ok || sub != "stale@example.com" {
		t.Fatalf("Subject = %q, %v; want stale@example.com, true", sub, ok)
	}
}

func TestSubjectRejectsBadSignature(t *testing.T) {
	codec, err := NewCodec(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	other, err := NewCodec(base64.StdEncoding.EncodeToString([]byte("another-key-another-key-another!")), time.Minute)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	token, err := other.Issue("user@example.com", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, ok := codec.Subject(token); ok {
		t.Fatalf("subject extracted from a token signed with a different key")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "secret123") {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}
