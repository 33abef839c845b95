package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/quizkit/internal/bank"
)

// ErrInputNotFound indicates the import source file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// ParseDetailed parses import text into one result per question block.
func ParseDetailed(text string) []Result {
	blocks := Segment(SplitLines(text))
	out := make([]Result, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Build(b))
	}
	return out
}

// Parse parses import text into question records. Ids are left zero;
// they are assigned when the records are merged into a bank.
func Parse(text string) []bank.Question {
	results := ParseDetailed(text)
	out := make([]bank.Question, len(results))
	for i, r := range results {
		out[i] = r.Question
	}
	return out
}

// ReadSource reads an import file, mapping a missing file to
// ErrInputNotFound.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// ParseFile reads and parses the import file at path.
func ParseFile(path string) ([]Result, error) {
	text, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return ParseDetailed(text), nil
}
