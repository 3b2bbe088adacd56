package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	mapping "sunspec-gateway/internal/mapping/domain"
)

// SchemaVersion is bumped on any incompatible change to the entry shape.
const SchemaVersion = 1

// File is the on-disk mapping artifact. It deliberately carries no build
// timestamp: the content hash is the version, so rebuilding from identical
// inputs produces a byte-identical file.
type File struct {
	SchemaVersion int                             `json:"schema_version"`
	ContentHash   string                          `json:"content_hash"`
	Entries       []mapping.CanonicalMappingEntry `json:"entries"`
}

// Encode serializes a table into artifact bytes. Entries are already in
// canonical-name order, and struct field order is fixed, so the output is
// deterministic.
func Encode(t *mapping.Table) ([]byte, error) {
	entries := t.Entries()
	body, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(body)
	f := File{
		SchemaVersion: SchemaVersion,
		ContentHash:   hex.EncodeToString(sum[:]),
		Entries:       entries,
	}
	return json.MarshalIndent(f, "", "  ")
}

// Write encodes a table and writes it to path, creating parent directories.
func Write(path string, t *mapping.Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Load reads an artifact, verifies its schema version and content hash, and
// rebuilds the indexed table.
func Load(path string) (*mapping.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapping artifact: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("mapping artifact %s: %w", path, err)
	}
	if f.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("mapping artifact %s: schema version %d, want %d", path, f.SchemaVersion, SchemaVersion)
	}
	body, err := json.Marshal(f.Entries)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(body)
	if got := hex.EncodeToString(sum[:]); got != f.ContentHash {
		return nil, fmt.Errorf("mapping artifact %s: content hash mismatch", path)
	}
	return mapping.NewTable(f.Entries)
}
