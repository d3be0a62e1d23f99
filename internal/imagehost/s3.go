// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagehost

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Config configures the S3 host. Credentials come from the standard AWS
// environment and shared config.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint for compatible stores such as MinIO.
	Endpoint string
	// PublicURL is the base for object URLs, e.g. a CDN origin. Defaults to
	// the virtual-hosted bucket URL.
	PublicURL string
}

// S3 stores objects in a bucket.
type S3 struct {
	bucket    string
	publicURL string
	client    s3iface.S3API
	uploader  *s3manager.Uploader
}

// NewS3 creates an S3 host from cfg.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	awsCfg := aws.NewConfig()
	if cfg.Region != "" {
		awsCfg = awsCfg.WithRegion(cfg.Region)
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return newS3(cfg, s3.New(sess)), nil
}

func newS3(cfg S3Config, client s3iface.S3API) *S3 {
	public := cfg.PublicURL
	if public == "" {
		public = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
		if cfg.Region != "" {
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3{
		bucket:    cfg.Bucket,
		publicURL: public,
		client:    client,
		uploader:  s3manager.NewUploaderWithClient(client),
	}
}

// Provider implements Host.
func (h *S3) Provider() string { return ProviderS3 }

// Put implements Host.
func (h *S3) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	k, err := cleanKey(key)
	if err != nil {
		return Object{}, err
	}
	_, err = h.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(h.bucket),
		Key:          aws.String(k),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Object{}, fmt.Errorf("uploading to s3: %w", err)
	}
	return Object{Key: k, URL: joinURL(h.publicURL, k)}, nil
}

// Delete implements Host. S3 treats deletes of missing keys as success.
func (h *S3) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = h.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(k),
	})
	if err != nil {
		return fmt.Errorf("deleting from s3: %w", err)
	}
	return nil
}
