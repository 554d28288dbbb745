package docpipe

// Format identifies a document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatODT  Format = "odt"
	FormatPDF  Format = "pdf"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// BlockKind classifies a document block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockBullet    BlockKind = "bullet"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one structural unit of the intermediate document model. Readers
// produce ordered blocks, writers consume them; anything a format cannot
// express in these three kinds is flattened to text.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"` // heading level 1-6, 0 otherwise
	Text  string    `json:"text"`
}

// Document is the parsed form of an uploaded file.
type Document struct {
	Format Format  `json:"format"`
	Blocks []Block `json:"blocks"`
}
