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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poiesic/bioscout/store"
)

// Source is a CorpusSource backed by an S3 bucket. It downloads a corpus
// file only when the local copy is missing or older than the object's
// last-modified time.
type Source struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// NewSource creates a corpus source around an existing S3 client.
func NewSource(client *s3.Client, bucket string, logger *slog.Logger) (*Source, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{client: client, bucket: bucket, logger: logger}, nil
}

// FetchIfStale downloads the object at key to localPath unless the local
// copy is already current.
func (s *Source) FetchIfStale(ctx context.Context, key, localPath string) error {
	if key == "" {
		return store.ErrEmptyKey
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("checking corpus object %q: %w", key, err)
	}

	if info, statErr := os.Stat(localPath); statErr == nil && head.LastModified != nil {
		if !info.ModTime().Before(*head.LastModified) {
			s.logger.Debug("local corpus copy is current", "key", key, "path", localPath)
			return nil
		}
	}

	return s.download(ctx, key, localPath)
}

func (s *Source) download(ctx context.Context, key, localPath string) error {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("fetching corpus object %q: %w", key, err)
	}
	defer obj.Body.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return err
	}

	// Write to a temp file first so a failed download never clobbers a
	// usable local copy.
	tmp, err := os.CreateTemp(filepath.Dir(localPath), filepath.Base(localPath)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, obj.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("downloading corpus object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return err
	}

	s.logger.Info("corpus file fetched", "key", key, "path", localPath)
	return nil
}

var _ store.CorpusSource = (*Source)(nil)
