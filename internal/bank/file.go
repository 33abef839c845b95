package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhisek/quizkit/internal/schema"
)

// ErrInvalidBank indicates the bank file is not a valid question array.
var ErrInvalidBank = errors.New("invalid question bank")

// BackupSuffix is appended to the bank path for the pre-write copy.
const BackupSuffix = ".bak"

// fileSchema describes the on-disk bank format. Constraints that span
// records, such as id uniqueness, are checked by checkRecords.
var fileSchema = schema.Definition{
	Name: "question-bank",
	Body: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"id", "question", "type"},
			"properties": map[string]any{
				"id":       map[string]any{"type": "integer", "minimum": 1},
				"question": map[string]any{"type": "string", "minLength": 1},
				"type":     map[string]any{"type": "string", "enum": []any{"mcq", "short"}},
				"choices": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"answer":      map[string]any{"type": []any{"integer", "null"}, "minimum": 0},
				"shortAnswer": map[string]any{"type": []any{"string", "null"}},
			},
		},
	},
}

// Decode parses and validates a bank document.
func Decode(data []byte) (Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Collection{}, nil
	}

	if _, err := fileSchema.Check(data); err != nil {
		if errors.Is(err, schema.ErrMalformed) || errors.Is(err, schema.ErrMismatch) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
		}
		return nil, err
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	if err := checkRecords(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBank, err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

// checkRecords enforces unique ids and in-range answer indexes.
func checkRecords(c Collection) error {
	seen := make(map[int]int, len(c))
	for i, q := range c {
		if prev, dup := seen[q.ID]; dup {
			return fmt.Errorf("records %d and %d share id %d", prev, i, q.ID)
		}
		seen[q.ID] = i
		if q.Answer != nil && *q.Answer >= len(q.Choices) {
			return fmt.Errorf("record %d (id %d): answer %d out of range for %d choices",
				i, q.ID, *q.Answer, len(q.Choices))
		}
	}
	return nil
}

// Encode renders c as a pretty-printed JSON array without HTML escaping,
// so non-ASCII text stays readable.
func Encode(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode bank: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads the bank at path. A missing file yields an empty collection.
func Load(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	c, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SaveOptions configures Save.
type SaveOptions struct {
	// Backup copies the current file to path+BackupSuffix before writing.
	Backup bool
}

// Save overwrites the bank at path with c. The new content is written to a
// temporary file in the same directory and renamed into place. An existing
// file keeps its permission bits; a new one is created 0644.
func Save(path string, c Collection, opts SaveOptions) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bank dir: %w", err)
	}

	if opts.Backup {
		if err := copyFile(path, path+BackupSuffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("backup bank: %w", err)
		}
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod bank: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write bank: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bank: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace bank: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
