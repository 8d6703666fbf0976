// Package storage persists the serialized conversation under a single fixed key.
package storage

// Key is the entry the conversation is stored under.
const Key = "chatHistory"

// Store is a durable single-entry key-value store. Callers own the encoding
// of the value.
type Store interface {
	// Load returns the stored value and whether one exists.
	Load() ([]byte, bool, error)
	// Save replaces the stored value.
	Save(data []byte) error
	// Clear removes the stored value. Clearing an empty store is not an error.
	Clear() error
	Close() error
}
