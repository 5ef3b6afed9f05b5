package sftpup

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"

	"golang.org/x/crypto/ssh"
)

// hostKeyCallback builds an ssh.HostKeyCallback that accepts a host key
// only if its base64 SHA256 fingerprint matches expected (the same
// "SHA256:..." form ssh-keyscan/ssh -v print). An empty expected value
// accepts any host key, for destinations where the operator has not
// pinned one.
func hostKeyCallback(expected string) ssh.HostKeyCallback {
	if expected == "" {
		return ssh.InsecureIgnoreHostKey()
	}
	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		got := fingerprint(key)
		if got != expected {
			return fmt.Errorf("host key fingerprint mismatch for %s: got %s, want %s", hostname, got, expected)
		}
		return nil
	}
}

func fingerprint(key ssh.PublicKey) string {
	sum := sha256.Sum256(key.Marshal())
	return "SHA256:" + base64.RawStdEncoding.EncodeToString(sum[:])
}
