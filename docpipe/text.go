package docpipe

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
)

// readText splits a plain text file into paragraph blocks on blank lines.
// Single newlines inside a paragraph collapse to spaces.
func readText(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	var blocks []Block
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		para = strings.Join(strings.Fields(para), " ")
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: para})
	}
	return blocks, nil
}

// readMarkdown renders the Markdown to HTML with goldmark and extracts
// blocks from the fixed tag set (headings, list items, paragraphs). Inline
// markup inside a block flattens to text, which is the lossy part of the
// round trip.
func readMarkdown(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return blocksFromHTML(buf.Bytes())
}

// writeText renders blocks as plain text: one block per line, structure
// dropped.
func writeText(blocks []Block, outPath string) error {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.Text)
	}
	sb.WriteByte('\n')
	return os.WriteFile(outPath, []byte(sb.String()), 0o600)
}

// writeMarkdown renders blocks as Markdown: #-prefixed headings, "* "
// bullets, paragraphs separated by blank lines.
func writeMarkdown(blocks []Block, outPath string) error {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			if level > 6 {
				level = 6
			}
			sb.WriteString(strings.Repeat("#", level))
			sb.WriteByte(' ')
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		case BlockBullet:
			sb.WriteString("* ")
			sb.WriteString(b.Text)
			sb.WriteByte('\n')
		default:
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		}
	}
	return os.WriteFile(outPath, []byte(sb.String()), 0o600)
}
