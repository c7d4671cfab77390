// Package prompts composes the instruction text for each pipeline stage.
// Prompt quality is intentionally out of the orchestrator's concern; these
// builders are plain string plumbing between stage inputs and the
// generation backend.
package prompts

import "fmt"

// Template builds the stage 1 prompt: extract a high-level process
// structure from SOP text and express it as a BPMN process template in JSON.
func Template(sopText string) string {
	return fmt.Sprintf(`You are a BPMN Process Designer Agent. You are given an SOP text extracted from a document. Your task is to extract a high-level process structure and convert it into a BPMN process template.

Analyze the content and identify:
- Actors (roles or departments)
- Start event
- User tasks, Service tasks, Gateways, and End events
- Sequence flow (in order)
- Special conditions (e.g., wait periods, triggers)
- Swimlanes for responsibilities

Output the process in a structured JSON format with start_event, tasks, end_event, and swimlanes fields.

SOP Text:
%s`, sopText)
}

// Refine builds the stage 2 prompt: verify the proposed template against
// the original SOP text and return a corrected, enriched JSON template.
func Refine(sopText, template string) string {
	return fmt.Sprintf(`You are a BPMN Process Refiner Agent. You will receive a proposed BPMN process (as JSON) and the original SOP text.

Check if all critical steps from the SOP are represented.
Fix incorrect flow sequences or missing elements (like approvals or exceptions).
Ensure the swimlanes match the roles described in the SOP.
Annotate special conditions such as escalation, retry loops, or timeouts.
Return a corrected and enriched JSON template and clearly state what was changed or added with reasons.

SOP Text:
%s

Proposed BPMN JSON:
%s`, sopText, template)
}

// GenerateXML builds the stage 3 prompt: convert the refined JSON template
// into BPMN 2.0 compliant XML.
func GenerateXML(refined string) string {
	return fmt.Sprintf(`You are a BPMN XML Generator Agent. Given a structured BPMN process in JSON format, convert it into a valid BPMN 2.0 compliant XML.

IMPORTANT: Return ONLY the BPMN XML content starting with <?xml and ending with </bpmn:definitions>. Do not include any explanatory text, comments, or markdown formatting.

Ensure:
- Every task/gateway/event has a unique ID
- Correct sequence flows with sourceRef and targetRef
- Proper lane and participant structure
- BPMN namespaces and structure are intact
- All sequence flow IDs referenced in <incoming> and <outgoing> are defined explicitly
- Condition expressions use <bpmn:conditionExpression xsi:type="tFormalExpression">

BPMN JSON:
%s`, refined)
}

// RefineXML builds the stage 4 prompt: validate and clean the generated
// BPMN XML for deployment and visualization.
func RefineXML(xml string) string {
	return fmt.Sprintf(`You are a BPMN XML Refiner Agent. You are given a BPMN 2.0 XML string, and your task is to correct and improve it before it's used for deployment or visualization.

IMPORTANT: Return ONLY the BPMN XML content starting with <?xml and ending with </bpmn:definitions>. Do not include any explanatory text, comments, or markdown formatting.

Validate that the XML conforms to the BPMN 2.0 schema, ensure connectivity between all sequenceFlow, startEvent, task, endEvent, and gateway elements, remove redundant or orphaned elements, fix broken BPMNEdge/BPMNShape references and inconsistent IDs, add human-readable labels, and space diagram coordinates cleanly for viewer rendering.

Output a cleaned-up, fully valid BPMN 2.0 XML string ready for deployment or visualization.

BPMN XML:
%s`, xml)
}

// Summarize builds the summary stage prompt from the extracted SOP text.
func Summarize(sopText string) string {
	return fmt.Sprintf("Summarize the following SOP:\n%s\n\nSummary:", sopText)
}

// Chat builds the interactive chat prompt with the extracted SOP text
// prepended as context.
func Chat(context, prompt string) string {
	return fmt.Sprintf(
		"Given the following extracted SOP text:\n%s\n\nUser prompt: %s\n\nPlease answer based on the SOP.",
		context, prompt,
	)
}
