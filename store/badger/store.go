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


package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/bioscout/store"
)

// key prefixes keep artifact bytes and their metadata in separate keyspaces.
var (
	dataPrefix = []byte("artifact:data:")
	metaPrefix = []byte("artifact:meta:")
)

// Store is a local ArtifactStore backed by BadgerDB. It stands in for the
// S3-backed store in development and tests; "presigned" URLs are local
// file-scheme URLs that expire only by convention.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens an artifact store at the specified path.
// Creates the directory if it doesn't exist.
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes an artifact and its content type under key.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return store.ErrEmptyKey
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		if err := tx.Set(append(dataPrefix, key...), data); err != nil {
			return err
		}
		return tx.Set(append(metaPrefix, key...), []byte(contentType))
	})
	if err != nil {
		return fmt.Errorf("storing artifact %q: %w", key, err)
	}

	s.logger.Debug("artifact stored", "key", key, "bytes", len(data))
	return nil
}

// PresignedGet returns a local URL for the artifact. The artifact must
// exist; ttl is accepted for interface compatibility but local URLs do not
// expire.
func (s *Store) PresignedGet(ctx context.Context, key, filename string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", store.ErrEmptyKey
	}

	err := s.db.View(func(tx *badger.Txn) error {
		_, err := tx.Get(append(dataPrefix, key...))
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", store.ErrNotFound
		}
		return "", err
	}

	u := url.URL{
		Scheme:   "artifact",
		Path:     key,
		RawQuery: url.Values{"filename": {filename}}.Encode(),
	}
	return u.String(), nil
}

// Get reads an artifact's bytes and content type back out of the store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", store.ErrEmptyKey
	}

	var data []byte
	var contentType string
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(append(dataPrefix, key...))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		meta, err := tx.Get(append(metaPrefix, key...))
		if err != nil {
			return err
		}
		return meta.Value(func(v []byte) error {
			contentType = string(v)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, "", store.ErrNotFound
		}
		return nil, "", err
	}
	return data, contentType, nil
}

var _ store.ArtifactStore = (*Store)(nil)
