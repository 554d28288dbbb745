package docpipe

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// readODT parses an .odt file by reading content.xml from the ZIP archive.
// text:h becomes a heading (outline-level), text:p inside text:list becomes
// a bullet, bare text:p a paragraph.
func readODT(path string) ([]Block, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var contentFile *zip.File
	for _, f := range r.File {
		if f.Name == "content.xml" {
			contentFile = f
			break
		}
	}
	if contentFile == nil {
		return nil, fmt.Errorf("content.xml not found in archive")
	}

	rc, err := contentFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open content.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var blocks []Block
	var currentText strings.Builder
	var inHeading bool
	var headingLevel int
	var inParagraph bool
	listDepth := 0
	depth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch t.Name.Local {
			case "h": // <text:h>
				inHeading = true
				currentText.Reset()
				headingLevel = 1
				for _, attr := range t.Attr {
					if attr.Name.Local == "outline-level" {
						if n, err := strconv.Atoi(attr.Value); err == nil {
							headingLevel = n
						}
					}
				}
			case "p": // <text:p>
				inParagraph = true
				currentText.Reset()
			case "list": // <text:list>
				listDepth++
			}

		case xml.CharData:
			if inHeading || inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			switch {
			case t.Name.Local == "h" && inHeading:
				inHeading = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				level := headingLevel
				if level < 1 {
					level = 1
				}
				if level > 6 {
					level = 6
				}
				blocks = append(blocks, Block{Kind: BlockHeading, Level: level, Text: text})

			case t.Name.Local == "p" && inParagraph:
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				kind := BlockParagraph
				if listDepth > 0 {
					kind = BlockBullet
				}
				blocks = append(blocks, Block{Kind: kind, Text: text})

			case t.Name.Local == "list":
				if listDepth > 0 {
					listDepth--
				}
			}
		}
	}

	return blocks, nil
}
