package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/constants"
	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

var ErrStoreClosed = errors.New("bolt store is closed")

// BoltStore is a single-file key-value backend. All keys live in one bucket.
type BoltStore struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	bucket []byte
	closed bool
	logger *zap.Logger
}

func OpenBoltStore(path string, logger *zap.Logger) (*BoltStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, apperrors.NewConfigError("bolt path is required", "FAVORITES_BOLT_PATH")
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
		return nil, fmt.Errorf("ensure bolt dir: %w", err)
	}

	db, err := bolt.Open(trimmed, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open bolt db", "open", trimmed, err)
	}

	bucket := []byte(constants.StorageKeys.BoltBucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, apperrors.NewStorageError("failed to create bucket", "open", trimmed, err)
	}

	logger.Info("Bolt store opened", zap.String("path", trimmed))

	return &BoltStore{db: db, path: trimmed, bucket: bucket, logger: logger}, nil
}

func (s *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrStoreClosed
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw != nil {
			value = string(raw)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, apperrors.NewStorageError("get failed", "get", key, err)
	}
	return value, found, nil
}

func (s *BoltStore) Set(_ context.Context, key, value string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		s.logger.Error("Bolt put failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewStorageError("set failed", "set", key, err)
	}
	return nil
}

func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
