package api

import (
	"fmt"
	"net/http"

	"github.com/procflow-io/procflow/internal/artifacts"
	"github.com/procflow-io/procflow/internal/config"
	"github.com/procflow-io/procflow/pkg/openapi"
)

// buildSpec generates the OpenAPI document for the API module.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Job": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"status":        {Type: "string", Enum: []any{"processing", "completed", "failed"}},
				"source_ref":    {Type: "string"},
				"stage_outputs": {Type: "object"},
				"error":         {Type: "string"},
				"reused":        {Type: "boolean"},
			},
		},
		"SubmitResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"job_id":      {Type: "string", Format: "uuid"},
				"status":      {Type: "string"},
				"reused":      {Type: "boolean"},
				"storage_key": {Type: "string"},
			},
		},
		"ProcessExistingRequest": {
			Type:     "object",
			Required: []string{"storage_key"},
			Properties: map[string]*openapi.Schema{
				"storage_key": {Type: "string"},
			},
		},
		"ChatRequest": {
			Type:     "object",
			Required: []string{"job_id", "prompt"},
			Properties: map[string]*openapi.Schema{
				"job_id": {Type: "string", Format: "uuid"},
				"prompt": {Type: "string"},
			},
		},
		"ChatResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"response": {Type: "string"},
			},
		},
		"Error": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error": {Type: "string"},
			},
		},
	})

	stageEnum := make([]any, 0, len(artifacts.Stages()))
	for _, s := range artifacts.Stages() {
		stageEnum = append(stageEnum, string(s))
	}

	spec.Paths["/upload"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Upload a document and start a pipeline run",
			Tags:    []string{"pipeline"},
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Run started", "SubmitResponse"),
				200: openapi.ResponseJSON("Existing results reused", "SubmitResponse"),
				400: openapi.ResponseJSON("Invalid upload", "Error"),
			},
		},
	}

	spec.Paths["/process_existing"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Start a pipeline run for a stored document",
			Tags:        []string{"pipeline"},
			RequestBody: openapi.RequestBodyJSON("ProcessExistingRequest", true),
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Run started", "SubmitResponse"),
				200: openapi.ResponseJSON("Existing results reused", "SubmitResponse"),
				404: openapi.ResponseJSON("Document not found", "Error"),
			},
		},
	}

	spec.Paths["/status/{job_id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Poll job status",
			Tags:       []string{"pipeline"},
			Parameters: []*openapi.Parameter{openapi.PathParam("job_id", "Job identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Job state", "Job"),
				404: openapi.ResponseJSON("Unknown job", "Error"),
			},
		},
	}

	spec.Paths["/download/{job_id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download the final BPMN result",
			Tags:       []string{"pipeline"},
			Parameters: []*openapi.Parameter{openapi.PathParam("job_id", "Job identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "BPMN XML content"},
				404: openapi.ResponseJSON("Job unknown or not completed", "Error"),
			},
		},
	}

	spec.Paths["/download/{job_id}/{stage}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Download one stage artifact",
			Tags:    []string{"pipeline"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("job_id", "Job identifier"),
				{
					Name: "stage", In: "path", Required: true,
					Description: "Stage artifact key",
					Schema:      &openapi.Schema{Type: "string", Enum: stageEnum},
				},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage artifact content"},
				404: openapi.ResponseJSON("Artifact not found", "Error"),
			},
		},
	}

	spec.Paths["/chat"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Ask a question about a processed document",
			Tags:        []string{"chat"},
			RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Answer", "ChatResponse"),
				404: openapi.ResponseJSON("Unknown job or missing artifact", "Error"),
			},
		},
	}

	spec.Paths["/files"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List stored document blobs",
			Tags:    []string{"results"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix filter", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob key listing"},
			},
		},
	}

	spec.Paths["/results_structure"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List artifact files grouped by document",
			Tags:    []string{"results"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Artifact tree"},
			},
		},
	}

	spec.Paths["/results/{path}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Fetch one stored artifact by document key and filename",
			Tags:    []string{"results"},
			Parameters: []*openapi.Parameter{
				{
					Name: "path", In: "path", Required: true,
					Description: "Document key and artifact filename",
					Schema:      &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Artifact content"},
				404: openapi.ResponseJSON("Artifact not found", "Error"),
			},
		},
	}

	return spec
}

// specHandler serializes the spec once and serves it as JSON.
func specHandler(cfg *config.Config) (http.HandlerFunc, error) {
	data, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return openapi.ServeSpec(data), nil
}
