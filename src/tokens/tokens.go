// Package tokens reports token counts over a converted docs tree.
package tokens

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder counts the tokens a model would see in a piece of text.
type Encoder interface {
	Count(text string) int
}

type tiktokenEncoder struct {
	enc *tiktoken.Tiktoken
}

// NewEncoder returns an Encoder over the cl100k_base vocabulary, the
// encoding the OpenAI chat models share.
func NewEncoder() (Encoder, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer: %w", err)
	}
	return &tiktokenEncoder{enc: enc}, nil
}

func (e *tiktokenEncoder) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}

// FileCount is the token count of one file.
type FileCount struct {
	Path   string // relative to the scanned directory
	Tokens int
}

// Report is the outcome of counting one directory tree.
type Report struct {
	Files       []FileCount // sorted by token count, largest first
	TotalFiles  int
	TotalTokens int
}

// CountTree counts tokens in every markdown file under dir.
func CountTree(enc Encoder, dir string) (*Report, error) {
	report := &Report{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		count := enc.Count(string(data))
		report.Files = append(report.Files, FileCount{Path: rel, Tokens: count})
		report.TotalFiles++
		report.TotalTokens += count
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(report.Files, func(i, j int) bool {
		if report.Files[i].Tokens != report.Files[j].Tokens {
			return report.Files[i].Tokens > report.Files[j].Tokens
		}
		return report.Files[i].Path < report.Files[j].Path
	})

	return report, nil
}
