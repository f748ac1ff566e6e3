// Package photoupload stores a user's profile photo: it validates the upload,
// writes it into the blob directory, normalizes it to JPEG and swaps the
// user's reference, removing whatever files a failed attempt left behind.
package photoupload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jo-hoe/goprofile/internal/backend/database"
)

const (
	// DefaultMaxFileSize is the largest accepted photo, measured on disk.
	DefaultMaxFileSize int64 = 5 * 1024 * 1024
	URLPrefix                = "/uploads/"
	SuccessMessage           = "Profile photo updated successfully"
)

type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*database.User, error)
	SetProfileImage(ctx context.Context, id int64, filename string) (string, error)
}

type BlobDirectory interface {
	Create(name string, r io.Reader, limit int64) (int64, error)
	ReadFile(name string) ([]byte, error)
	Replace(name string, data []byte) error
	Remove(name string) error
	Exists(name string) bool
}

type ImageProcessor interface {
	Execute(imageData []byte) ([]byte, error)
}

// Upload is one incoming file field. A nil *Upload means the field was absent.
type Upload struct {
	Filename string
	Size     int64 // declared by the client; the on-disk size is what gets enforced
	Content  io.Reader
}

type Result struct {
	Message  string `json:"message"`
	PhotoURL string `json:"photo_url"`
	Filename string `json:"-"`
}

type Pipeline struct {
	store       UserStore
	directory   BlobDirectory
	processor   ImageProcessor
	maxFileSize int64
	now         func() time.Time
}

type Option func(*Pipeline)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.maxFileSize = size
		}
	}
}

// WithClock sets the time source used for blob names.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPipeline(store UserStore, directory BlobDirectory, processor ImageProcessor, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:       store,
		directory:   directory,
		processor:   processor,
		maxFileSize: DefaultMaxFileSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Upload runs validate, write, process and commit for one photo. On any error
// after the write, the new file is removed before returning.
func (p *Pipeline) Upload(ctx context.Context, userID int64, upload *Upload) (*Result, error) {
	if upload == nil || upload.Content == nil || upload.Filename == "" {
		return nil, ErrMissingFile
	}
	if !IsAllowedFile(upload.Filename) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, upload.Filename)
	}

	user, err := p.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup user %d: %v", ErrInternal, userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}

	filename := BlobName(userID, p.now(), upload.Filename)
	logger := slog.With("user_id", userID, "filename", filename)

	written, err := p.directory.Create(filename, upload.Content, p.maxFileSize)
	if err != nil {
		// Create removes its own partial file; an existing file belongs to someone else
		return nil, fmt.Errorf("%w: write %s: %v", ErrInternal, filename, err)
	}

	committed := false
	defer func() {
		if !committed {
			p.discard(logger, filename)
		}
	}()

	if written > p.maxFileSize {
		logger.Info("rejecting oversized upload", "max_bytes", p.maxFileSize, "declared_size", upload.Size)
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, p.maxFileSize)
	}

	if err := p.process(filename); err != nil {
		logger.Error("failed to process uploaded image", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}

	previous, err := p.store.SetProfileImage(ctx, userID, filename)
	if errors.Is(err, database.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, userID)
	}
	if err != nil {
		logger.Error("failed to update profile image reference", "error", err)
		return nil, fmt.Errorf("%w: update user %d: %v", ErrInternal, userID, err)
	}
	committed = true

	if previous != "" && previous != filename && p.directory.Exists(previous) {
		if err := p.directory.Remove(previous); err != nil {
			logger.Warn("failed to remove superseded profile image", "previous", previous, "error", err)
		}
	}

	logger.Info("profile photo updated", "bytes_received", written, "previous", previous)

	return &Result{
		Message:  SuccessMessage,
		PhotoURL: URLPrefix + filename,
		Filename: filename,
	}, nil
}

func (p *Pipeline) process(filename string) error {
	data, err := p.directory.ReadFile(filename)
	if err != nil {
		return err
	}
	processed, err := p.processor.Execute(data)
	if err != nil {
		return err
	}
	return p.directory.Replace(filename, processed)
}

// discard removes a blob best-effort; the caller already has an error to report.
func (p *Pipeline) discard(logger *slog.Logger, filename string) {
	if err := p.directory.Remove(filename); err != nil {
		logger.Warn("failed to remove orphaned upload", "error", err)
	}
}
