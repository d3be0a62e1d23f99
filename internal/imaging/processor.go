// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging inspects and normalises uploaded files before they are
// handed to the image host.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Accepted MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypePDF  = "application/pdf"
)

// DefaultMaxDimension bounds the longer edge of stored images.
const DefaultMaxDimension = 2560

// ErrUnsupportedType is returned for content that is not an accepted image
// or PDF.
var ErrUnsupportedType = errors.New("unsupported file type")

// Result is a processed upload ready for storage.
type Result struct {
	Data     []byte
	MimeType string
	Ext      string
	Width    int
	Height   int
}

// Processor normalises uploads using pure Go libraries.
type Processor struct {
	maxDimension int
	quality      int
}

// NewProcessor creates a processor. maxDimension <= 0 uses
// DefaultMaxDimension.
func NewProcessor(maxDimension int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Processor{maxDimension: maxDimension, quality: 90}
}

// Process sniffs data and returns the bytes to store. Still images are
// rotated per their EXIF orientation, re-encoded without metadata and
// scaled down to the maximum dimension. GIFs and PDFs are stored as sent.
func (p *Processor) Process(data []byte) (*Result, error) {
	mimeType := DetectMimeType(data)
	switch mimeType {
	case MimeTypePDF:
		return &Result{Data: data, MimeType: mimeType, Ext: ".pdf"}, nil
	case MimeTypeGIF:
		// Re-encoding would drop animation frames.
		cfg, err := gif.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read gif: %w", err)
		}
		return &Result{Data: data, MimeType: mimeType, Ext: ".gif", Width: cfg.Width, Height: cfg.Height}, nil
	case MimeTypeJPEG, MimeTypePNG, MimeTypeWebP:
	default:
		return nil, ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(data))

	b := img.Bounds()
	if b.Dx() > p.maxDimension || b.Dy() > p.maxDimension {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	out, outMime, err := p.encode(img, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b = img.Bounds()
	return &Result{Data: out, MimeType: outMime, Ext: Extension(outMime), Width: b.Dx(), Height: b.Dy()}, nil
}

// Dimensions reads width and height without decoding the whole image.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// DetectMimeType sniffs the content type. TIFF is reported as
// application/octet-stream (CVE-2023-36308 in disintegration/imaging).
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	if strings.Contains(contentType, "tiff") {
		return "application/octet-stream"
	}
	return contentType
}

// IsImage reports whether mimeType is an accepted image type.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}

// Extension returns the file extension for an accepted MIME type.
func Extension(mimeType string) string {
	switch mimeType {
	case MimeTypeJPEG:
		return ".jpg"
	case MimeTypePNG:
		return ".png"
	case MimeTypeGIF:
		return ".gif"
	case MimeTypeWebP:
		return ".webp"
	case MimeTypePDF:
		return ".pdf"
	}
	return ""
}

// encode writes img in its source format. WebP has no pure Go encoder and
// is stored as JPEG.
func (p *Processor) encode(img image.Image, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch mimeType {
	case MimeTypePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MimeTypePNG, nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), MimeTypeJPEG, nil
	}
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes an EXIF orientation:
// 2 flip H, 3 rotate 180, 4 flip V, 5 transpose, 6 rotate 90 CW,
// 7 transverse, 8 rotate 90 CCW.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
