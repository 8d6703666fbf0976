package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("conversation")

// Bolt is a Store backed by a BoltDB file.
type Bolt struct {
	db   *bolt.DB
	path string
}

// OpenBolt opens (creating if needed) the database at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Bolt{db: db, path: path}, nil
}

// Path returns the database file location.
func (b *Bolt) Path() string {
	return b.path
}

func (b *Bolt) Load() ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketName)
		if bk == nil {
			return nil
		}
		if v := bk.Get([]byte(Key)); v != nil {
			// v is only valid inside the transaction
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", Key, err)
	}
	return out, out != nil, nil
}

func (b *Bolt) Save(data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return bk.Put([]byte(Key), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", Key, err)
	}
	return nil
}

func (b *Bolt) Clear() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketName)
		if bk == nil {
			return nil
		}
		return bk.Delete([]byte(Key))
	})
	if err != nil {
		return fmt.Errorf("clear %s: %w", Key, err)
	}
	return nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
