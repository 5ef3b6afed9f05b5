package sftpup

import (
	"context"
	"fmt"
	"net"
	"os"
	"path"
	"sync"
	"sync/atomic"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/hostforensics/collector/internal/packager"
	"github.com/hostforensics/collector/pkg/errors"
)

// sessionPool is a fixed-size, round-robin pool of SFTP sessions, the
// SFTP analogue of s3obj's ConnectionPool: one SSH connection per slot,
// created once at Dial and reused for every part written through it.
type sessionPool struct {
	clients []*sftp.Client
	conns   []*ssh.Client
	next    uint64
}

// Dial opens cfg.sessions() concurrent SFTP sessions against cfg.Host,
// authenticating with the private key at cfg.PrivateKeyPath.
func Dial(cfg *Config) (*sessionPool, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	key, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidDestination, "failed to read private key").
			WithComponent("sftpup").WithOperation("dial").WithContext("path", cfg.PrivateKeyPath).WithCause(err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidDestination, "failed to parse private key").
			WithComponent("sftpup").WithOperation("dial").WithCause(err)
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback(cfg.HostKeyFingerprint),
		Timeout:         cfg.connectTimeout(),
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	n := cfg.sessions()
	pool := &sessionPool{clients: make([]*sftp.Client, 0, n), conns: make([]*ssh.Client, 0, n)}

	for i := 0; i < n; i++ {
		conn, err := ssh.Dial("tcp", addr, sshConfig)
		if err != nil {
			pool.Close()
			return nil, errors.New(errors.ErrCodeTransportError, "failed to establish SSH session").
				WithComponent("sftpup").WithOperation("dial").WithContext("host", cfg.Host).WithCause(err)
		}
		client, err := sftp.NewClient(conn)
		if err != nil {
			conn.Close()
			pool.Close()
			return nil, errors.New(errors.ErrCodeTransportError, "failed to start SFTP session").
				WithComponent("sftpup").WithOperation("dial").WithCause(err)
		}
		pool.conns = append(pool.conns, conn)
		pool.clients = append(pool.clients, client)
	}
	return pool, nil
}

// pick round-robins across the pool's sessions.
func (p *sessionPool) pick() *sftp.Client {
	i := atomic.AddUint64(&p.next, 1) - 1
	return p.clients[int(i)%len(p.clients)]
}

func (p *sessionPool) Close() error {
	var firstErr error
	for _, c := range p.clients {
		if c != nil {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	for _, c := range p.conns {
		if c != nil {
			c.Close()
		}
	}
	return firstErr
}

// Upload writes one remote archive file across a session pool's
// connections, round-robin, satisfying packager.Uploader.
type Upload struct {
	pool       *sessionPool
	remotePath string
	partSize   int64

	mu        sync.Mutex
	openOnce  sync.Once
	openErr   error
	completed int64
}

// NewUpload prepares an upload of stagingRoot's archive to
// cfg.RemoteDirectory/name over pool.
func NewUpload(pool *sessionPool, cfg *Config, name string) *Upload {
	return &Upload{pool: pool, remotePath: path.Join(cfg.RemoteDirectory, name), partSize: cfg.partSize()}
}

func (u *Upload) ensureRemoteFile() error {
	u.openOnce.Do(func() {
		client := u.pool.pick()
		f, err := client.Create(u.remotePath)
		if err != nil {
			u.openErr = err
			return
		}
		u.openErr = f.Close()
	})
	return u.openErr
}

// SingleShot writes the whole archive as one sequential transfer.
func (u *Upload) SingleShot(ctx context.Context, data []byte) (string, error) {
	if err := u.ensureRemoteFile(); err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to create remote archive").
			WithComponent("sftpup").WithOperation("single_shot").WithContext("path", u.remotePath).WithCause(err)
	}
	client := u.pool.pick()
	f, err := client.OpenFile(u.remotePath, os.O_WRONLY)
	if err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to open remote archive for write").
			WithComponent("sftpup").WithOperation("single_shot").WithCause(err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to write archive").
			WithComponent("sftpup").WithOperation("single_shot").WithCause(err)
	}
	return u.remotePath, nil
}

// UploadPart writes data at the byte offset implied by partNumber into
// the remote file, through whichever session round-robin assigns it.
func (u *Upload) UploadPart(ctx context.Context, partNumber int, data []byte) (string, error) {
	if err := u.ensureRemoteFile(); err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to create remote archive").
			WithComponent("sftpup").WithOperation("upload_part").WithContext("path", u.remotePath).WithCause(err)
	}

	client := u.pool.pick()
	f, err := client.OpenFile(u.remotePath, os.O_WRONLY)
	if err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to open remote archive for write").
			WithComponent("sftpup").WithOperation("upload_part").WithCause(err)
	}
	defer f.Close()

	offset := int64(partNumber-1) * u.partSize
	if _, err := f.WriteAt(data, offset); err != nil {
		return "", errors.New(errors.ErrCodeTransportError, "failed to write archive part").
			WithComponent("sftpup").WithOperation("upload_part").WithContext("offset", fmt.Sprintf("%d", offset)).WithCause(err)
	}

	u.mu.Lock()
	u.completed++
	u.mu.Unlock()
	return fmt.Sprintf("part-%d", partNumber), nil
}

// Complete has no server-side finalization step for SFTP (unlike S3
// multipart); the remote file is already complete once every part has
// landed, so this just reports the remote path.
func (u *Upload) Complete(ctx context.Context, parts []packager.CompletedPart) (string, error) {
	return u.remotePath, nil
}

// Abort removes the partially-written remote archive.
func (u *Upload) Abort(ctx context.Context) error {
	client := u.pool.pick()
	if err := client.Remove(u.remotePath); err != nil {
		return errors.New(errors.ErrCodeTransportError, "failed to remove partial remote archive").
			WithComponent("sftpup").WithOperation("abort").WithContext("path", u.remotePath).WithCause(err)
	}
	return nil
}
