// internal/savegame/savegame.go
//
// Durable save slots for game snapshots.
// One slot per key (the player's user or anonymous id); saving overwrites it.
//
// Backends:
//   - FileStore:  one JSON file per key under a directory (default).
//   - RedisStore: one JSON value per key with a TTL (when REDIS_ADDR is set).

package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/robalobadob/unscrambler/internal/game"
)

var (
	ErrNoSave     = errors.New("no saved game")
	ErrInvalidKey = errors.New("invalid save key")
)

// Store persists one snapshot per key.
type Store interface {
	Save(ctx context.Context, key string, snap game.Snapshot) error
	Load(ctx context.Context, key string) (game.Snapshot, error)
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// FileStore keeps snapshots as dir/<key>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes to a temp file and renames it over the slot.
func (f *FileStore) Save(_ context.Context, key string, snap game.Snapshot) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	path := filepath.Join(f.dir, key+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context, key string) (game.Snapshot, error) {
	if err := checkKey(key); err != nil {
		return game.Snapshot{}, err
	}
	data, err := os.ReadFile(filepath.Join(f.dir, key+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return game.Snapshot{}, ErrNoSave
	}
	if err != nil {
		return game.Snapshot{}, err
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
