// Package media stores uploaded listing photos.  A media reference is the
// public URL the store returned; each backend recognises its own URLs when
// asked to remove one and ignores everything else.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/dorm-booking/internal/config"
)

// ErrDisabled is returned by uploads when no backend is configured.
var ErrDisabled = errors.New("media uploads are disabled")

// Store uploads and removes media objects.
type Store interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}

// New builds the Store selected by cfg.Backend.
func New(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "none":
		return Nop{}, nil
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	case "s3":
		return NewS3(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
}

// Nop rejects uploads and ignores removals.
type Nop struct{}

func (Nop) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

func (Nop) Remove(context.Context, string) error { return nil }

// objectName returns a collision free name that keeps the original
// extension.
func objectName(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(name, "\\", "/"))))
	if len(ext) > 8 || strings.ContainsAny(ext, " /?#%") {
		ext = ""
	}
	return uuid.NewString() + ext
}
