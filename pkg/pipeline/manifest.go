package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/matzehuels/bingo/pkg/squares"
)

// ManifestFile is written next to the card images.
const ManifestFile = "manifest.json"

// Manifest records what a generation run produced. Together with the same
// pool, the seed reproduces every card.
type Manifest struct {
	RunID     string         `json:"run_id"`
	Generator string         `json:"generator"`
	Seed      uint64         `json:"seed"`
	CreatedAt time.Time      `json:"created_at"`
	Squares   string         `json:"squares"`
	PoolHash  string         `json:"pool_hash"`
	Font      string         `json:"font"`
	Cards     []ManifestCard `json:"cards"`
}

// ManifestCard lists one card's squares in row-major order.
type ManifestCard struct {
	File    string   `json:"file"`
	Squares []string `json:"squares"`
}

// PoolHash is the SHA-256 of the pool's squares, independent of the
// whitespace in the source file.
func PoolHash(pool []squares.Square) string {
	h := sha256.New()
	for _, sq := range pool {
		h.Write([]byte(sq))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
