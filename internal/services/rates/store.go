package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// FileCacheStore keeps the cache as one JSON object keyed by code.
type FileCacheStore struct {
	Path string
}

func NewFileCacheStore(path string) *FileCacheStore {
	return &FileCacheStore{Path: path}
}

// Load returns an empty map when the file does not exist yet.
func (s *FileCacheStore) Load(_ context.Context) (map[string]Entry, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries := map[string]Entry{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode rate cache %s: %w", s.Path, err)
	}
	return entries, nil
}

func (s *FileCacheStore) Save(_ context.Context, entries map[string]Entry) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	raw, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return err
	}
	// write then rename so a crash never leaves a truncated cache
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

// RedisCacheStore keeps the cache in one redis hash, one JSON field per code.
type RedisCacheStore struct {
	client *redis.Client
	key    string
}

func NewRedisCacheStore(client *redis.Client, key string) *RedisCacheStore {
	return &RedisCacheStore{client: client, key: key}
}

func (s *RedisCacheStore) Load(ctx context.Context) (map[string]Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(fields))
	for code, raw := range fields {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode rate cache field %q: %w", code, err)
		}
		entries[code] = e
	}
	return entries, nil
}

func (s *RedisCacheStore) Save(ctx context.Context, entries map[string]Entry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]any, len(entries))
	for code, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values[code] = string(raw)
	}
	return s.client.HSet(ctx, s.key, values).Err()
}
