// Package chunk asks an LLM to propose split points for converted
// markdown so it can be ingested into a retrieval index.
package chunk

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattstanbrell/amped/src/config"
	"github.com/mattstanbrell/amped/src/segment"
	"github.com/mattstanbrell/amped/src/tokens"
)

// Usage is the token accounting for one completion call.
type Usage struct {
	Prompt     int
	Completion int
}

func (u Usage) add(other Usage) Usage {
	return Usage{Prompt: u.Prompt + other.Prompt, Completion: u.Completion + other.Completion}
}

// Completer produces one chat completion for a system and user message.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, Usage, error)
}

// Split marks the line after which a chunk boundary should fall, with a
// short retrieval context for the chunk that follows.
type Split struct {
	Line    int    `json:"line"`
	Context string `json:"context"`
}

// Proposal is the model's split list for one document.
type Proposal struct {
	Splits []Split `json:"splits"`
}

// Summary reports one directory run.
type Summary struct {
	Files    int
	Proposed int
	Skipped  int
	Usage    Usage
}

// Chunker numbers document lines, asks the Completer for split points,
// and validates the reply against the document's code fences.
type Chunker struct {
	completer Completer
	enc       tokens.Encoder
	minTokens int
	total     Usage
	log       *slog.Logger
}

func New(cfg config.ChunkConfig, enc tokens.Encoder, completer Completer, log *slog.Logger) *Chunker {
	return &Chunker{
		completer: completer,
		enc:       enc,
		minTokens: cfg.MinTokens,
		log:       log.With("area", "chunk"),
	}
}

// Usage reports the tokens consumed across all Propose calls so far.
func (c *Chunker) Usage() Usage {
	return c.total
}

const systemPrompt = "You are a document chunking assistant for AWS Amplify Gen 2 documentation."

const chunkingPrompt = `You are a document chunking assistant for AWS Amplify Gen 2 documentation. AWS Amplify Gen 2 is a code-first development experience that allows developers to use TypeScript to build full-stack applications on AWS, automatically provisioning the cloud infrastructure based on the app's requirements.

You are currently processing the documentation file: %s

Your task is to analyze the given markdown document and identify optimal splitting points that:
1. Maintain semantic coherence
2. Keep related concepts together
3. Don't split code blocks
4. Keep headings with their related content

Pay special attention to markdown heading patterns:
- Use heading levels (# vs ## vs ###) to identify major and minor section boundaries
- Major section breaks (# or ## headings) are often good splitting points
- Chunks should start with a heading where natural

For the document enclosed in <document></document> tags, return a JSON object with a "splits" array. Each entry has a "line" number AFTER which a split should happen and a "context" string.

Rules:
- Don't split in the middle of paragraphs
- Don't split in the middle of code blocks
- Keep headings with their related content
- Prefer splitting at major section boundaries (# or ## headings)
- For each split point, please give a short succinct context to situate this chunk within the overall document for the purposes of improving search retrieval of the chunk

Example of good context:
Original chunk: "The company's revenue grew by 3%% over the previous quarter." (our chunks should be much larger than this, this is just an example)
Context to add: "SEC filing, ACME corp Q2 2023 performance, following Q1 revenue of $314M"

<document>
%s
</document>`

// Propose asks for split points in one document. Documents under the
// minimum token threshold get an empty proposal without a model call.
func (c *Chunker) Propose(ctx context.Context, content, relPath string) (*Proposal, error) {
	count := c.enc.Count(content)
	if count < c.minTokens {
		c.log.Info("document below chunking threshold", "file", relPath, "tokens", count)
		return &Proposal{Splits: []Split{}}, nil
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	var numbered strings.Builder
	for i, line := range lines {
		fmt.Fprintf(&numbered, "%d: %s\n", i+1, line)
	}

	prompt := fmt.Sprintf(chunkingPrompt, relPath, strings.TrimSpace(numbered.String()))

	reply, usage, err := c.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("chunking %s: %w", relPath, err)
	}
	c.total = c.total.add(usage)
	c.log.Info("chunk proposal received",
		"file", relPath, "promptTokens", usage.Prompt, "completionTokens", usage.Completion)

	var proposal Proposal
	if err := json.Unmarshal([]byte(stripFence(reply)), &proposal); err != nil {
		return nil, fmt.Errorf("parsing chunk reply for %s: %w", relPath, err)
	}

	proposal.Splits = c.validSplits(proposal.Splits, content, len(lines), relPath)
	return &proposal, nil
}

// validSplits drops out-of-range, out-of-order, and in-code splits.
func (c *Chunker) validSplits(splits []Split, content string, lineCount int, relPath string) []Split {
	ranges := codeLineRanges(content)
	kept := make([]Split, 0, len(splits))
	last := 0

	for _, s := range splits {
		switch {
		case s.Line < 1 || s.Line >= lineCount:
			c.log.Warn("dropping out-of-range split", "file", relPath, "line", s.Line)
		case s.Line <= last:
			c.log.Warn("dropping out-of-order split", "file", relPath, "line", s.Line)
		case insideCode(ranges, s.Line):
			c.log.Warn("dropping split inside code block", "file", relPath, "line", s.Line)
		default:
			kept = append(kept, s)
			last = s.Line
		}
	}
	return kept
}

// codeLineRanges maps the document's code segments to inclusive
// 1-based line ranges.
func codeLineRanges(content string) [][2]int {
	var ranges [][2]int
	line := 1
	for _, seg := range segment.Split(content) {
		count := strings.Count(seg.Text, "\n")
		if !strings.HasSuffix(seg.Text, "\n") {
			count++
		}
		end := line + count - 1
		if seg.Code {
			ranges = append(ranges, [2]int{line, end})
		}
		line = end + 1
	}
	return ranges
}

// insideCode reports whether a split after the given line lands between
// two lines of the same code segment.
func insideCode(ranges [][2]int, line int) bool {
	for _, r := range ranges {
		if line >= r[0] && line < r[1] {
			return true
		}
	}
	return false
}

func stripFence(reply string) string {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		if i := strings.Index(reply, "\n"); i >= 0 {
			reply = reply[i+1:]
		}
		reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")
	}
	return strings.TrimSpace(reply)
}

// WriteProposal saves the proposal as a .json sibling of the markdown
// file it belongs to.
func WriteProposal(mdPath string, p *Proposal) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding proposal: %w", err)
	}
	jsonPath := strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".json"
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	return nil
}

// ProposeTree proposes splits for every markdown file under dir,
// writing each proposal next to its source.
func (c *Chunker) ProposeTree(ctx context.Context, dir string) (*Summary, error) {
	summary := &Summary{}
	before := c.total

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
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

		proposal, err := c.Propose(ctx, string(data), rel)
		if err != nil {
			return err
		}
		if err := WriteProposal(path, proposal); err != nil {
			return err
		}

		summary.Files++
		if len(proposal.Splits) > 0 {
			summary.Proposed++
		} else {
			summary.Skipped++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Usage = Usage{
		Prompt:     c.total.Prompt - before.Prompt,
		Completion: c.total.Completion - before.Completion,
	}
	return summary, nil
}
