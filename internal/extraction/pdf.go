package extraction

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// pdfPlainText reads the native text layer of a PDF document.
func pdfPlainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", fmt.Errorf("read pdf text layer: %w", err)
	}

	return buf.String(), nil
}
