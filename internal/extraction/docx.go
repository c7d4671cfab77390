package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// docxPlainText reads the main document part of a Word archive and joins
// its text runs, one line per paragraph.
func docxPlainText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	part, err := archive.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("read docx document part: %w", err)
	}
	defer part.Close()

	var (
		out     strings.Builder
		decoder = xml.NewDecoder(part)
		inRun   bool
	)
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode docx document part: %w", err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			if el.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inRun = false
			case "p":
				out.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				out.Write(el)
			}
		}
	}

	return out.String(), nil
}
