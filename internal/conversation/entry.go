package conversation

import (
	"encoding/json"
	"fmt"
	"time"
)

// Terminal texts for requests that did not produce a completion.
const (
	StoppedText = "Generation stopped by user."
	ErrorText   = "Error generating response."
)

// Entry is one prompt/response exchange.
type Entry struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt"`
	Response     string    `json:"response"`
	IsGenerating bool      `json:"isGenerating"`
	HasAnimated  bool      `json:"hasAnimated"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Encode serializes a conversation for storage.
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode conversation: %w", err)
	}
	return data, nil
}

// Decode parses a stored conversation.
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return entries, nil
}
