// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poiesic/bioscout/store"
)

// Store is an ArtifactStore backed by an S3 bucket.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an artifact store for the given bucket using the default AWS
// credential chain.
func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return NewWithClient(client, bucket, opts...)
}

// NewWithClient creates an artifact store around an existing S3 client.
func NewWithClient(client *s3.Client, bucket string, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if bucket == "" {
		return nil, ErrBucketRequired
	}

	s := &Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put uploads an artifact under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return store.ErrEmptyKey
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading artifact %q: %w", key, err)
	}

	s.logger.Debug("artifact uploaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return nil
}

// PresignedGet returns a time-limited download URL. The URL sets a
// Content-Disposition header so browsers save the object under filename.
func (s *Store) PresignedGet(ctx context.Context, key, filename string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", store.ErrEmptyKey
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presigning artifact %q: %w", key, err)
	}
	return req.URL, nil
}

var _ store.ArtifactStore = (*Store)(nil)
