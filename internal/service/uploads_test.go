// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/docstore"
	"github.com/olegiv/pathway-go/internal/imagehost"
	"github.com/olegiv/pathway-go/internal/imaging"
	"github.com/olegiv/pathway-go/internal/model"
	"github.com/olegiv/pathway-go/internal/repository"
	"github.com/olegiv/pathway-go/internal/store"
	"github.com/olegiv/pathway-go/internal/testutil"
	"github.com/olegiv/pathway-go/internal/validate"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploadFixture(t *testing.T) (*UploadService, *repository.Repositories, string) {
	t.Helper()
	db := testutil.TestDB(t)
	repos := repository.New(db, docstore.NewSQLiteStore(db))
	dir := t.TempDir()
	host, err := imagehost.NewLocal(dir, "/media")
	require.NoError(t, err)
	return NewUploadService(repos.Uploads, host, imaging.NewProcessor(0), testutil.TestLoggerSilent()), repos, dir
}

func TestUploadService_UploadAndDelete(t *testing.T) {
	svc, repos, dir := newUploadFixture(t)
	ctx := context.Background()

	uploader, err := repos.Users.Create(ctx, model.User{
		Name: "Admin", Email: "admin@example.com", PasswordHash: "hash", Role: model.RoleAdmin, Active: true,
	})
	require.NoError(t, err)

	up, err := svc.Upload(ctx, `C:\photos\campus.PNG`, testPNG(t), uploader.ID)
	require.NoError(t, err)
	assert.Equal(t, uploader.ID, up.UploadedBy)
	assert.Equal(t, "campus.png", up.Filename)
	assert.Equal(t, imaging.MimeTypePNG, up.MimeType)
	assert.Equal(t, 8, up.Width)
	assert.Equal(t, 6, up.Height)
	assert.Equal(t, imagehost.ProviderLocal, up.Provider)
	assert.Regexp(t, `^/media/uploads/\d{4}/\d{2}/`+up.ID+`-campus\.png$`, up.URL)

	stored := filepath.Join(dir, filepath.FromSlash(up.ExternalID))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	got, err := repos.Uploads.Get(ctx, up.ID)
	require.NoError(t, err)
	assert.Equal(t, up.URL, got.URL)

	require.NoError(t, svc.Delete(ctx, up.ID))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
	_, err = repos.Uploads.Get(ctx, up.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUploadService_Rejects(t *testing.T) {
	svc, _, _ := newUploadFixture(t)
	ctx := context.Background()

	for name, data := range map[string][]byte{
		"empty":   nil,
		"text":    []byte("just text"),
		"too big": bytes.Repeat([]byte{0}, MaxUploadSize+1),
		"bad png": {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "x.bin", data, "")
			var verr validate.Errors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr, "file")
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "photo.jpg", displayName("photo.webp", ".jpg"))
	assert.Equal(t, "upload.pdf", displayName("", ".pdf"))
	assert.Equal(t, "passwd.png", displayName("../../etc/passwd", ".png"))
}
