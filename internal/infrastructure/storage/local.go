// Package storage keeps attachment content on the local filesystem and
// issues signed links to it.
package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/customerly-inc/customerly/internal/shared/errors"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

// OpObserver records blob operations. *metrics.Metrics satisfies it.
type OpObserver interface {
	BlobOp(op string, err error)
	BlobWritten(n int64)
}

// LocalStore maps storage paths such as tickets/{id}/{file} onto a root
// directory.
type LocalStore struct {
	root     string
	observer OpObserver
	logger   logger.Interface
}

func NewLocalStore(root string, observer OpObserver, log logger.Interface) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStore{root: abs, observer: observer, logger: log}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

// resolve turns a storage path into a file path under root. Absolute
// paths and anything climbing out of root are rejected.
func (s *LocalStore) resolve(storagePath string) (string, error) {
	if storagePath == "" || strings.HasPrefix(storagePath, "/") || strings.Contains(storagePath, `\`) {
		return "", errors.NewValidationError("invalid storage path")
	}
	clean := path.Clean(storagePath)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.NewValidationError("invalid storage path")
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes content through a temp file and renames it into place so
// readers never see a partial file.
func (s *LocalStore) Put(ctx context.Context, storagePath string, r io.Reader, size int64, contentType string) (err error) {
	defer func() { s.observe("put", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("short write: wrote %d of %d bytes", written, size)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to move blob into place: %w", err)
	}

	if s.observer != nil {
		s.observer.BlobWritten(written)
	}
	s.logger.Debugw("blob stored", "path", storagePath, "size", written, "content_type", contentType)
	return nil
}

// Open returns the blob content. The caller closes it.
func (s *LocalStore) Open(ctx context.Context, storagePath string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("file not found")
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// Delete removes one blob. A missing blob is not an error.
func (s *LocalStore) Delete(ctx context.Context, storagePath string) (err error) {
	defer func() { s.observe("delete", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// DeletePrefix removes every blob under a directory prefix such as
// tickets/{id}/.
func (s *LocalStore) DeletePrefix(ctx context.Context, prefix string) (err error) {
	defer func() { s.observe("delete_prefix", err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.resolve(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	if target == s.root {
		return errors.NewValidationError("refusing to delete storage root")
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("failed to delete blobs under %s: %w", prefix, err)
	}
	s.logger.Debugw("blob prefix removed", "prefix", prefix)
	return nil
}

func (s *LocalStore) observe(op string, err error) {
	if s.observer != nil {
		s.observer.BlobOp(op, err)
	}
}
