package pipeline

import (
	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/prompts"
)

// stageSpec describes one generation stage: the artifact it produces, the
// prior outputs its prompt consumes, and whether the model response passes
// through the XML extraction filter before it is recorded.
type stageSpec struct {
	stage     artifacts.Stage
	inputs    []artifacts.Stage
	filterXML bool
	compose   func(outputs map[artifacts.Stage]string) string
}

// stageChain lists the generation stages in execution order. The summary
// stage depends only on the extracted text; it runs last for simplicity
// but nothing it consumes is produced by stages 1 through 4.
var stageChain = []stageSpec{
	{
		stage:  artifacts.StageTemplate,
		inputs: []artifacts.Stage{artifacts.StageExtractedText},
		compose: func(out map[artifacts.Stage]string) string {
			return prompts.Template(out[artifacts.StageExtractedText])
		},
	},
	{
		stage:  artifacts.StageRefined,
		inputs: []artifacts.Stage{artifacts.StageExtractedText, artifacts.StageTemplate},
		compose: func(out map[artifacts.Stage]string) string {
			return prompts.Refine(out[artifacts.StageExtractedText], out[artifacts.StageTemplate])
		},
	},
	{
		stage:     artifacts.StageXML,
		inputs:    []artifacts.Stage{artifacts.StageRefined},
		filterXML: true,
		compose: func(out map[artifacts.Stage]string) string {
			return prompts.GenerateXML(out[artifacts.StageRefined])
		},
	},
	{
		stage:     artifacts.StageFinalXML,
		inputs:    []artifacts.Stage{artifacts.StageXML},
		filterXML: true,
		compose: func(out map[artifacts.Stage]string) string {
			return prompts.RefineXML(out[artifacts.StageXML])
		},
	},
	{
		stage:  artifacts.StageSummary,
		inputs: []artifacts.Stage{artifacts.StageExtractedText},
		compose: func(out map[artifacts.Stage]string) string {
			return prompts.Summarize(out[artifacts.StageExtractedText])
		},
	},
}
