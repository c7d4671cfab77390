// Package bpmn provides best-effort text handling for BPMN 2.0 payloads
// produced by generation stages. It performs no schema validation; a
// downstream consumer must validate the XML if conformance is required.
package bpmn

import "strings"

const (
	prologMarker = "<?xml"
	openTag      = "<bpmn:definitions"
	closeTag     = "</bpmn:definitions>"
	rootName     = "bpmn:definitions"
)

// ExtractXML isolates a BPMN XML payload from surrounding natural-language
// commentary. Generation stages occasionally wrap the requested XML in
// explanatory text; this heuristic slices from the first recognized start
// marker to the matching close boundary. Whenever the boundaries cannot be
// established, the input is returned unchanged.
func ExtractXML(text string) string {
	if text == "" {
		return text
	}

	start := strings.Index(text, prologMarker)
	if start == -1 {
		start = strings.Index(text, openTag)
		if start == -1 {
			return text
		}
	}

	end := strings.Index(text, closeTag)
	if end != -1 {
		end += len(closeTag)
	} else {
		last := strings.LastIndex(text, rootName)
		if last == -1 {
			return text
		}
		gt := strings.Index(text[last:], ">")
		if gt == -1 {
			return text
		}
		end = last + gt + 1
	}

	if end <= start {
		return text
	}

	extracted := strings.TrimSpace(text[start:end])

	// A slice that no longer begins with a recognized marker is a
	// meaningless fragment; abandon the extraction.
	if !strings.HasPrefix(extracted, prologMarker) && !strings.HasPrefix(extracted, openTag) {
		return text
	}

	return extracted
}
