package encryption

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeBrosOfficial/relayer/pkg/codec"
)

// SharedKeySize is the length of keys produced by GenerateSharedKey.
const SharedKeySize = 32

// GenerateSharedKey returns SharedKeySize random bytes as key material.
func GenerateSharedKey() (*codec.Material, error) {
	key := make([]byte, SharedKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate shared key: %w", err)
	}
	return &codec.Material{SharedKey: key}, nil
}

// SaveSharedKey writes the key hex encoded, readable by the owner only.
func SaveSharedKey(m *codec.Material, path string) error {
	if m == nil || len(m.SharedKey) == 0 {
		return fmt.Errorf("save shared key: empty key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(hex.EncodeToString(m.SharedKey)+"\n"), 0600)
}

// LoadSharedKey reads a key written by SaveSharedKey. Surrounding whitespace
// is ignored; an empty or non-hex file is an error.
func LoadSharedKey(path string) (*codec.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("load shared key %s: %w", path, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("load shared key %s: empty key", path)
	}
	return &codec.Material{SharedKey: key}, nil
}
