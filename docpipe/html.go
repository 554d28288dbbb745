package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/morph/staging"
)

// htmlPolicy strips scripts, event handlers, and embeds from uploaded HTML
// before any parsing touches it. Structural elements survive, and style
// attributes stay so the hidden-text filter can inspect them.
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	return p
}()

var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
	regexp.MustCompile(`(?i)font-size\s*:\s*0[^1-9]`),
	regexp.MustCompile(`(?i)opacity\s*:\s*0[^.]`),
}

func hasHiddenStyle(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if a.Key == "style" {
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// readHTML sanitizes an HTML file and extracts blocks from its DOM.
func readHTML(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return blocksFromHTML(htmlPolicy.SanitizeBytes(data))
}

// blocksFromHTML walks an HTML DOM and emits blocks for headings (h1-h6),
// list items, and paragraphs. Also used by the Markdown reader on rendered
// output.
func blocksFromHTML(data []byte) ([]Block, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []Block
	extractHTMLNodes(doc, &blocks)

	if len(blocks) == 0 {
		// Fallback: whole visible text as one paragraph.
		if text := collectHTMLText(doc); text != "" {
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: text})
		}
	}
	return blocks, nil
}

// extractHTMLNodes walks the DOM tree and extracts block-level content.
func extractHTMLNodes(n *html.Node, blocks *[]Block) {
	if n.Type == html.ElementNode {
		// Skip boilerplate.
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Header:
			return
		}
		if hasHiddenStyle(n) {
			return
		}

		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			if text := collectHTMLText(n); text != "" {
				level := int(n.Data[1] - '0')
				*blocks = append(*blocks, Block{Kind: BlockHeading, Level: level, Text: text})
			}
			return

		case atom.Li:
			if text := collectHTMLText(n); text != "" {
				*blocks = append(*blocks, Block{Kind: BlockBullet, Text: text})
			}
			return

		case atom.P:
			if text := collectHTMLText(n); text != "" {
				*blocks = append(*blocks, Block{Kind: BlockParagraph, Text: text})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractHTMLNodes(c, blocks)
	}
}

// collectHTMLText extracts all visible text from a node subtree.
func collectHTMLText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
			if hasHiddenStyle(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// mdConverter turns HTML into Markdown for the html→md edge. Richer than
// the block model: links, emphasis, and tables survive.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// htmlToMarkdown converts an HTML file directly to Markdown, bypassing the
// block model.
func (p *Pipeline) htmlToMarkdown(_ context.Context, stage *staging.Dir, inputPath string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrConversionFailed, err)
	}

	md, err := mdConverter.ConvertString(string(htmlPolicy.SanitizeBytes(data)))
	if err != nil {
		return "", fmt.Errorf("%w: html to markdown: %v", ErrConversionFailed, err)
	}

	out, err := stage.Path("output.md")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(out, []byte(strings.TrimSpace(md)+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("%w: write: %v", ErrConversionFailed, err)
	}
	return out, nil
}
