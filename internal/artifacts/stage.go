// Package artifacts implements durable persistence for named stage outputs.
// Every stage output is stored as an individually retrievable blob under a
// document-identity-scoped path, independent of job identifiers, so a
// later submission of the same document can locate prior results.
package artifacts

import (
	"encoding/json"
	"slices"
)

// Stage identifies one named output of the pipeline.
type Stage string

// Pipeline stages in execution order. Result duplicates the stage 4 output
// as the consolidated final artifact.
const (
	StageExtractedText Stage = "extracted_text"
	StageTemplate      Stage = "stage1_template"
	StageRefined       Stage = "stage2_refined"
	StageXML           Stage = "stage3_xml"
	StageFinalXML      Stage = "stage4_final_xml"
	StageSummary       Stage = "summary"
	StageResult        Stage = "result"
)

var stages = []Stage{
	StageExtractedText,
	StageTemplate,
	StageRefined,
	StageXML,
	StageFinalXML,
	StageSummary,
	StageResult,
}

// Stages returns all pipeline stages in execution order.
func Stages() []Stage {
	return slices.Clone(stages)
}

// filenames maps each stage to its fixed persisted artifact name.
var filenames = map[Stage]string{
	StageExtractedText: "extracted_text.txt",
	StageTemplate:      "bpmn_template.json",
	StageRefined:       "refined_bpmn_template.json",
	StageXML:           "bpmn_xml.xml",
	StageFinalXML:      "final_bpmn_xml.bpmn",
	StageSummary:       "summary.txt",
	StageResult:        "result.bpmn.xml",
}

var contentTypes = map[Stage]string{
	StageExtractedText: "text/plain; charset=utf-8",
	StageTemplate:      "application/json",
	StageRefined:       "application/json",
	StageXML:           "application/xml",
	StageFinalXML:      "application/xml",
	StageSummary:       "text/plain; charset=utf-8",
	StageResult:        "application/xml",
}

// Filename returns the fixed artifact file name for the stage.
func (s Stage) Filename() string {
	return filenames[s]
}

// ContentType returns the MIME type the stage's artifact is stored with.
func (s Stage) ContentType() string {
	return contentTypes[s]
}

// Valid reports whether s is a known pipeline stage.
func (s Stage) Valid() bool {
	return slices.Contains(stages, s)
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !v.Valid() {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known pipeline stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !v.Valid() {
		return "", ErrInvalidStage
	}
	return v, nil
}
