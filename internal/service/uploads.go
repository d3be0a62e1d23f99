// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/olegiv/pathway-go/internal/imagehost"
	"github.com/olegiv/pathway-go/internal/imaging"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/util"
	"github.com/olegiv/pathway-go/internal/validate"
)

// MaxUploadSize is the largest accepted upload.
const MaxUploadSize = 10 << 20

// UploadService sends files to the image host and records their metadata.
type UploadService struct {
	repo   *repository.Uploads
	host   imagehost.Host
	proc   *imaging.Processor
	logger *slog.Logger
	now    func() time.Time
}

// NewUploadService creates an UploadService.
func NewUploadService(repo *repository.Uploads, host imagehost.Host, proc *imaging.Processor, logger *slog.Logger) *UploadService {
	return &UploadService{
		repo:   repo,
		host:   host,
		proc:   proc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Upload processes data, stores it and records an Upload row. When the row
// cannot be written the stored object is removed again.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte, uploadedBy string) (model.Upload, error) {
	v := validate.New()
	v.Check(len(data) > 0, "file", "is required")
	v.Check(len(data) <= MaxUploadSize, "file", fmt.Sprintf("must be at most %d MB", MaxUploadSize>>20))
	if err := v.Err(); err != nil {
		return model.Upload{}, err
	}

	res, err := s.proc.Process(data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedType) {
			v.Add("file", "must be a JPEG, PNG, GIF, WebP or PDF file")
			return model.Upload{}, v.Err()
		}
		v.Add("file", "could not be read as an image")
		return model.Upload{}, v.Err()
	}

	id := s.repo.NewID()
	name := displayName(filename, res.Ext)
	obj, err := s.host.Put(ctx, imagehost.Key(id, name, s.now()), res.MimeType, res.Data)
	if err != nil {
		return model.Upload{}, fmt.Errorf("storing upload: %w", err)
	}

	up, err := s.repo.Create(ctx, model.Upload{
		ID:         id,
		Filename:   name,
		Size:       int64(len(res.Data)),
		MimeType:   res.MimeType,
		Width:      res.Width,
		Height:     res.Height,
		Provider:   s.host.Provider(),
		ExternalID: obj.Key,
		URL:        obj.URL,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		if derr := s.host.Delete(ctx, obj.Key); derr != nil {
			s.logger.Error("failed to remove orphaned upload", "key", obj.Key, "error", derr)
		}
		return model.Upload{}, err
	}
	s.logger.Info("file uploaded", "upload_id", up.ID, "provider", up.Provider, "size", up.Size)
	return up, nil
}

// Delete removes the stored object and its row.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	up, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.host.Delete(ctx, up.ExternalID); err != nil {
		return fmt.Errorf("removing stored file: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// displayName keeps the client's base name and swaps in the stored
// extension, since processing may change the format.
func displayName(filename, ext string) string {
	base, err := util.SanitizeFilename(filename)
	if err != nil {
		base = "upload"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) > 200 {
		base = base[:200]
	}
	return base + ext
}
