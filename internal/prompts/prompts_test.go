package prompts_test

import (
	"strings"
	"testing"

	"github.com/procflow-io/procflow/internal/prompts"
)

func TestStagePromptsCarryInputs(t *testing.T) {
	tests := []struct {
		name     string
		prompt   string
		contains []string
	}{
		{
			name:     "template embeds SOP text",
			prompt:   prompts.Template("Step 1. Intake form."),
			contains: []string{"Step 1. Intake form.", "BPMN Process Designer", "structured JSON format"},
		},
		{
			name:     "refine embeds both inputs",
			prompt:   prompts.Refine("Step 1. Intake form.", `{"tasks":[]}`),
			contains: []string{"Step 1. Intake form.", `{"tasks":[]}`, "BPMN Process Refiner"},
		},
		{
			name:     "generate xml embeds refined template",
			prompt:   prompts.GenerateXML(`{"start_event":"s"}`),
			contains: []string{`{"start_event":"s"}`, "BPMN 2.0 compliant XML", "Return ONLY the BPMN XML"},
		},
		{
			name:     "refine xml embeds generated xml",
			prompt:   prompts.RefineXML("<bpmn:definitions/>"),
			contains: []string{"<bpmn:definitions/>", "BPMN XML Refiner", "Return ONLY the BPMN XML"},
		},
		{
			name:     "summarize embeds SOP text",
			prompt:   prompts.Summarize("Step 1. Intake form."),
			contains: []string{"Step 1. Intake form.", "Summarize the following SOP"},
		},
		{
			name:     "chat embeds context and question",
			prompt:   prompts.Chat("Step 1. Intake form.", "who approves?"),
			contains: []string{"Step 1. Intake form.", "who approves?", "answer based on the SOP"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(tt.prompt, want) {
					t.Errorf("prompt missing %q", want)
				}
			}
		})
	}
}

func TestXMLPromptsDemandBareOutput(t *testing.T) {
	// Both XML stages forbid markdown fences so downstream filtering stays a
	// fallback rather than a requirement.
	for _, prompt := range []string{
		prompts.GenerateXML("{}"),
		prompts.RefineXML("<x/>"),
	} {
		if !strings.Contains(prompt, "Do not include any explanatory text, comments, or markdown formatting.") {
			t.Error("XML prompt must forbid markdown and commentary")
		}
	}
}
