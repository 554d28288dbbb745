// Package docpipe converts documents between text formats through a
// block-level intermediate model.
//
// Supported sources:
//   - .docx  — Microsoft Word (archive/zip → word/document.xml)
//   - .odt   — OpenDocument Text (archive/zip → content.xml)
//   - .pdf   — PDF text extraction (pdfcpu content streams)
//   - .md    — Markdown (rendered to HTML, then block extraction)
//   - .txt   — Plain text (blank-line paragraph splitting)
//   - .html  — HTML (sanitized, then DOM block extraction)
//
// Supported targets: txt, md, docx, and pdf (docx staged through an
// external LibreOffice render). html→md converts directly without the
// block model, which preserves links and tables.
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	out, err := pipe.Convert(ctx, stage, "/staging/in.docx", docpipe.FormatMD)
package docpipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/morph/staging"
)

// Pipeline is the document conversion engine. The conversion table is built
// once at construction: every supported (source, target) pair has an
// explicit entry, and everything else fails with ErrUnsupportedPair before
// any parsing work.
type Pipeline struct {
	cfg   Config
	table map[edge]convertFunc
}

type edge struct {
	src, dst Format
}

type convertFunc func(ctx context.Context, stage *staging.Dir, inputPath string) (string, error)

type readerFunc func(path string) ([]Block, error)

type writerFunc func(blocks []Block, outPath string) error

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	p := &Pipeline{cfg: cfg, table: make(map[edge]convertFunc)}

	readers := map[Format]readerFunc{
		FormatDocx: readDocx,
		FormatODT:  readODT,
		FormatPDF:  readPDF,
		FormatMD:   readMarkdown,
		FormatTXT:  readText,
		FormatHTML: readHTML,
	}
	writers := map[Format]writerFunc{
		FormatTXT:  writeText,
		FormatMD:   writeMarkdown,
		FormatDocx: writeDocx,
	}

	for src, read := range readers {
		for dst, write := range writers {
			if src == dst {
				continue
			}
			p.table[edge{src, dst}] = p.modelConvert(read, write, dst)
		}
		if src != FormatPDF {
			p.table[edge{src, FormatPDF}] = p.pdfConvert(read, src)
		}
	}

	// html→md goes through the dedicated converter instead of the block
	// model: it keeps links, emphasis, and tables.
	p.table[edge{FormatHTML, FormatMD}] = p.htmlToMarkdown

	return p
}

// Detect returns the document format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether the (source, target) pair has a conversion edge.
func (p *Pipeline) Supported(source, target Format) bool {
	_, ok := p.table[edge{source, target}]
	return ok
}

// Convert transforms the staged input file into target format and returns
// the output path inside stage. The source format comes from the input
// extension.
func (p *Pipeline) Convert(ctx context.Context, stage *staging.Dir, inputPath string, target Format) (string, error) {
	source, err := p.Detect(inputPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", inputPath, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), p.cfg.MaxFileSize)
	}

	fn, ok := p.table[edge{source, target}]
	if !ok {
		return "", fmt.Errorf("%w: %s → %s", ErrUnsupportedPair, source, target)
	}

	p.cfg.Logger.Debug("converting document", "source", source, "target", target, "size", info.Size())
	return fn(ctx, stage, inputPath)
}

// Parse extracts the block model from a document without converting it.
func (p *Pipeline) Parse(path string) (*Document, error) {
	source, err := p.Detect(path)
	if err != nil {
		return nil, err
	}
	read, err := p.readerFor(source)
	if err != nil {
		return nil, err
	}
	blocks, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConversionFailed, source, err)
	}
	return &Document{Format: source, Blocks: blocks}, nil
}

func (p *Pipeline) readerFor(f Format) (readerFunc, error) {
	switch f {
	case FormatDocx:
		return readDocx, nil
	case FormatODT:
		return readODT, nil
	case FormatPDF:
		return readPDF, nil
	case FormatMD:
		return readMarkdown, nil
	case FormatTXT:
		return readText, nil
	case FormatHTML:
		return readHTML, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// modelConvert composes a reader and a writer through the block model.
func (p *Pipeline) modelConvert(read readerFunc, write writerFunc, dst Format) convertFunc {
	return func(_ context.Context, stage *staging.Dir, inputPath string) (string, error) {
		blocks, err := read(inputPath)
		if err != nil {
			return "", fmt.Errorf("%w: parse: %v", ErrConversionFailed, err)
		}
		out, err := stage.Path("output." + string(dst))
		if err != nil {
			return "", err
		}
		if err := write(blocks, out); err != nil {
			return "", fmt.Errorf("%w: write %s: %v", ErrConversionFailed, dst, err)
		}
		return out, nil
	}
}

// pdfConvert stages an intermediate docx and renders it to PDF with the
// external renderer. A docx source skips the intermediate and renders the
// input directly.
func (p *Pipeline) pdfConvert(read readerFunc, src Format) convertFunc {
	return func(ctx context.Context, stage *staging.Dir, inputPath string) (string, error) {
		docxPath := inputPath
		if src != FormatDocx {
			blocks, err := read(inputPath)
			if err != nil {
				return "", fmt.Errorf("%w: parse: %v", ErrConversionFailed, err)
			}
			docxPath, err = stage.Path("intermediate.docx")
			if err != nil {
				return "", err
			}
			if err := writeDocx(blocks, docxPath); err != nil {
				return "", fmt.Errorf("%w: write docx: %v", ErrConversionFailed, err)
			}
		}
		return p.renderPDF(ctx, stage, docxPath)
	}
}

// SupportedSources returns all source format names.
func SupportedSources() []string {
	return []string{"docx", "odt", "pdf", "md", "txt", "html"}
}

// SupportedTargets returns all target format names.
func SupportedTargets() []string {
	return []string{"txt", "md", "docx", "pdf"}
}
