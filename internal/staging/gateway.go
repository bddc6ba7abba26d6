// Package staging mediates all access to user-selected statement
// documents. The original is never mutated; work happens on an ephemeral
// protected copy with an opaque name, and that copy is destroyed by
// overwrite-then-unlink on every exit path, success or failure.
package staging

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MaxDocumentBytes is the hard size limit for an original document.
	MaxDocumentBytes = 10 << 20

	// scrubBytes is how much of the staged file head gets overwritten
	// with random data before unlinking.
	scrubBytes = 1024

	allowedExtension = ".pdf"
)

// Error kinds surfaced by the gateway. Callers match them with errors.Is.
var (
	ErrFileTooLarge      = errors.New("document exceeds the size limit")
	ErrInvalidFileType   = errors.New("document is not a statement PDF")
	ErrFileNotFound      = errors.New("document not found")
	ErrScopeAccessFailed = errors.New("could not acquire access to the document")
	ErrIOFailure         = errors.New("staging failed")
)

// Gateway stages documents into an isolated working directory. Staged
// files are independent per call: concurrent staging of different
// documents is safe, and the directory is reused across runs.
type Gateway struct {
	dir        string
	protection Protection
	log        zerolog.Logger
}

// NewGateway creates the staging directory if needed, puts it under
// storage protection, and returns a gateway rooted there.
func NewGateway(dir string, protection Protection, log zerolog.Logger) (*Gateway, error) {
	if protection == nil {
		protection = NoopProtection{}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating staging directory: %v", ErrIOFailure, err)
	}
	if err := protection.Protect(dir); err != nil {
		return nil, fmt.Errorf("%w: protecting staging directory: %v", ErrIOFailure, err)
	}
	return &Gateway{dir: dir, protection: protection, log: log}, nil
}

// WithSecureAccess validates the original document at originalPath, stages
// a protected copy under an opaque name, invokes body with the staged
// path, and securely destroys the staged copy before returning — no exit
// path (normal return, error, or panic) leaves it on disk. Destruction
// failures are logged and never mask body's outcome. The original file is
// never touched beyond reading.
func WithSecureAccess[T any](g *Gateway, originalPath string, body func(stagedPath string) (T, error)) (T, error) {
	var zero T

	release, err := g.protection.AcquireScope(originalPath)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrScopeAccessFailed, err)
	}
	defer release()

	info, err := os.Stat(originalPath)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, fmt.Errorf("%w: %s", ErrFileNotFound, originalPath)
	}
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	if ext := strings.ToLower(filepath.Ext(originalPath)); ext != allowedExtension {
		return zero, fmt.Errorf("%w: %q", ErrInvalidFileType, ext)
	}
	if info.Size() > MaxDocumentBytes {
		return zero, fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, info.Size(), MaxDocumentBytes)
	}

	staged, err := g.stage(originalPath)
	if err != nil {
		return zero, err
	}
	defer g.destroy(staged)

	return body(staged)
}

// stage copies the original into the working directory under a freshly
// generated opaque name and applies storage protection to the copy.
func (g *Gateway) stage(originalPath string) (string, error) {
	src, err := os.Open(originalPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening original: %v", ErrIOFailure, err)
	}
	defer src.Close()

	staged := filepath.Join(g.dir, uuid.NewString()+allowedExtension)
	dst, err := os.OpenFile(staged, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("%w: creating staged copy: %v", ErrIOFailure, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		g.destroy(staged)
		return "", fmt.Errorf("%w: copying to staged file: %v", ErrIOFailure, err)
	}
	if err := dst.Close(); err != nil {
		g.destroy(staged)
		return "", fmt.Errorf("%w: closing staged file: %v", ErrIOFailure, err)
	}

	if err := g.protection.Protect(staged); err != nil {
		g.destroy(staged)
		return "", fmt.Errorf("%w: protecting staged file: %v", ErrIOFailure, err)
	}
	return staged, nil
}

// destroy performs the secure overwrite-then-unlink of a staged file.
// Failures are logged, never escalated: cleanup must not override the
// outcome of the work done on the staged copy.
func (g *Gateway) destroy(stagedPath string) {
	if err := scrubAndRemove(stagedPath); err != nil {
		g.log.Error().Err(err).
			Str("staged", filepath.Base(stagedPath)).
			Msg("secure destruction of staged document failed")
	}
}

// scrubAndRemove overwrites the first min(fileSize, 1024) bytes of the
// file with random data, flushes, and unlinks it.
func scrubAndRemove(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	n := info.Size()
	if n > scrubBytes {
		n = scrubBytes
	}
	if n > 0 {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			f.Close()
			return fmt.Errorf("generating scrub bytes: %w", err)
		}
		if _, err := f.WriteAt(buf, 0); err != nil {
			f.Close()
			return err
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return err
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
