package sftpup

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/ssh"
)

func testSignerAndKey(t *testing.T) (ssh.Signer, ssh.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("signer from key: %v", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	return signer, sshPub
}

func TestHostKeyCallback_EmptyExpectedAcceptsAnyKey(t *testing.T) {
	_, pub := testSignerAndKey(t)
	cb := hostKeyCallback("")
	if err := cb("host:22", nil, pub); err != nil {
		t.Errorf("expected nil error for empty fingerprint, got %v", err)
	}
}

func TestHostKeyCallback_MatchingFingerprintAccepted(t *testing.T) {
	_, pub := testSignerAndKey(t)
	cb := hostKeyCallback(fingerprint(pub))
	if err := cb("host:22", nil, pub); err != nil {
		t.Errorf("expected nil error for matching fingerprint, got %v", err)
	}
}

func TestHostKeyCallback_MismatchedFingerprintRejected(t *testing.T) {
	_, pub := testSignerAndKey(t)
	cb := hostKeyCallback("SHA256:not-the-real-fingerprint")
	if err := cb("host:22", nil, pub); err == nil {
		t.Error("expected error for mismatched fingerprint, got nil")
	}
}

func TestFingerprint_StableForSameKey(t *testing.T) {
	_, pub := testSignerAndKey(t)
	if fingerprint(pub) != fingerprint(pub) {
		t.Error("fingerprint should be stable for the same key")
	}
}

func TestFingerprint_DiffersForDifferentKeys(t *testing.T) {
	_, pub1 := testSignerAndKey(t)
	_, pub2 := testSignerAndKey(t)
	if fingerprint(pub1) == fingerprint(pub2) {
		t.Error("fingerprint should differ for different keys")
	}
}
