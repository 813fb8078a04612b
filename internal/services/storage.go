package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ObjectStorage interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// localStorage keeps objects under <uploadPath>/<bucket>/<key>.
type localStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) ObjectStorage {
	return &localStorage{
		uploadPath: uploadPath,
	}
}

func (s *localStorage) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(s.uploadPath, bucket, key), nil
}

func (s *localStorage) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	return nil
}

func (s *localStorage) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	path, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}
