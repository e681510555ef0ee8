// Package swagger registers the podsaas OpenAPI document with swag.
// Regenerate with `go generate ./docs`.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/nagdatt/ai-podcast-saas"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "Reports whether the database and the enabled backing services are reachable",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "description": "Registered LLM providers, execution mode and prompt count",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Server status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.StatusResponse"}}
                }
            }
        },
        "/api/jobs": {
            "get": {
                "description": "List jobs newest first, without transcripts or results",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "List jobs",
                "parameters": [
                    {"type": "string", "description": "Filter by state (queued, running, completed, failed)", "name": "state", "in": "query"},
                    {"type": "string", "description": "Filter by project", "name": "project_id", "in": "query"},
                    {"type": "integer", "description": "Max results (default 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset for pagination", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.ListJobsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Record a job for a finished transcript and start generating its assets",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Create a job",
                "parameters": [
                    {"description": "Project and transcript", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/endpoints.CreateJobRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/jobs.Job"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/jobs/{id}": {
            "get": {
                "description": "Get a job with its step status and, once completed, its generated assets",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get a job",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/jobs.Job"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/jobs/{id}/status": {
            "get": {
                "description": "Per-step status of a job, for polling",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Get job status",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.JobStatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/generate/{kind}": {
            "post": {
                "description": "Synchronously run a single use case on the posted transcript. Generation problems yield the use case's fallback with used_fallback set.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generate"],
                "summary": "Generate one asset",
                "parameters": [
                    {"type": "string", "description": "Asset kind or step name (summary, titles, hashtags, social, keyMoments, youtubeTimestamps)", "name": "kind", "in": "path", "required": true},
                    {"description": "Finished transcript", "name": "transcript", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transcript.Transcript"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/llmcalls": {
            "get": {
                "description": "List LLM calls with optional filters",
                "produces": ["application/json"],
                "tags": ["llmcalls"],
                "summary": "List LLM calls",
                "parameters": [
                    {"type": "string", "description": "Filter by job ID", "name": "job_id", "in": "query"},
                    {"type": "string", "description": "Filter by step name", "name": "step", "in": "query"},
                    {"type": "string", "description": "Filter by prompt key", "name": "prompt_key", "in": "query"},
                    {"type": "string", "description": "Filter by provider", "name": "provider", "in": "query"},
                    {"type": "integer", "description": "Max results (default 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.LLMCallsResponse"}}
                }
            }
        },
        "/api/llmcalls/counts": {
            "get": {
                "description": "Get count of LLM calls grouped by prompt key, optionally for one job",
                "produces": ["application/json"],
                "tags": ["llmcalls"],
                "summary": "Get LLM call counts by prompt key",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "job_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.LLMCallCountsResponse"}}
                }
            }
        },
        "/api/llmcalls/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["llmcalls"],
                "summary": "Get an LLM call",
                "parameters": [
                    {"type": "string", "description": "LLM call ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.LLMCallResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/metrics/summary": {
            "get": {
                "description": "Token, latency and cost totals over recorded LLM calls",
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "LLM usage summary",
                "parameters": [
                    {"type": "string", "description": "Filter by job ID", "name": "job_id", "in": "query"},
                    {"type": "string", "description": "Filter by step name", "name": "step", "in": "query"},
                    {"type": "string", "description": "Filter by provider", "name": "provider", "in": "query"},
                    {"type": "string", "description": "Filter by model", "name": "model", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.MetricsSummaryResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/metrics/steps": {
            "get": {
                "description": "Latency percentiles and token usage per generation step, optionally for one job",
                "produces": ["application/json"],
                "tags": ["metrics"],
                "summary": "Per-step LLM statistics",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "job_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.MetricsStepsResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        },
        "/api/prompts": {
            "get": {
                "description": "Get all registered prompt templates with their hashes",
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "List all prompts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/endpoints.PromptsListResponse"}}
                }
            }
        },
        "/api/prompts/{key}": {
            "get": {
                "description": "Get a specific prompt by key",
                "produces": ["application/json"],
                "tags": ["prompts"],
                "summary": "Get a prompt",
                "parameters": [
                    {"type": "string", "description": "Prompt key (e.g., assets.summary.system)", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/prompts.EmbeddedPrompt"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "endpoints.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "endpoints.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "endpoints.StatusResponse": {
            "type": "object",
            "properties": {
                "server": {"type": "string"},
                "mode": {"type": "string"},
                "providers": {"type": "array", "items": {"type": "string"}},
                "prompts": {"type": "integer"},
                "pool": {"$ref": "#/definitions/jobs.PoolStatus"}
            }
        },
        "endpoints.CreateJobRequest": {
            "type": "object",
            "properties": {
                "project_id": {"type": "string"},
                "transcript": {"$ref": "#/definitions/transcript.Transcript"}
            }
        },
        "endpoints.ListJobsResponse": {
            "type": "object",
            "properties": {"jobs": {"type": "array", "items": {"$ref": "#/definitions/jobs.Job"}}}
        },
        "endpoints.JobStatusResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "state": {"type": "string"},
                "status": {"$ref": "#/definitions/jobs.JobStatus"},
                "error": {"type": "string"}
            }
        },
        "endpoints.GenerateResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "value": {},
                "used_fallback": {"type": "boolean"}
            }
        },
        "endpoints.LLMCallsResponse": {
            "type": "object",
            "properties": {
                "calls": {"type": "array", "items": {"$ref": "#/definitions/llmcall.Call"}},
                "total": {"type": "integer"}
            }
        },
        "endpoints.LLMCallResponse": {
            "type": "object",
            "properties": {
                "call": {"$ref": "#/definitions/llmcall.Call"},
                "error": {"type": "string"}
            }
        },
        "endpoints.LLMCallCountsResponse": {
            "type": "object",
            "properties": {"counts": {"type": "object", "additionalProperties": {"type": "integer"}}}
        },
        "endpoints.MetricsSummaryResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "success_count": {"type": "integer"},
                "error_count": {"type": "integer"},
                "total_cost_usd": {"type": "number"},
                "input_tokens": {"type": "integer"},
                "output_tokens": {"type": "integer"},
                "total_tokens": {"type": "integer"},
                "total_time_ms": {"type": "integer"},
                "avg_cost_usd": {"type": "number"},
                "avg_tokens": {"type": "number"},
                "avg_time_ms": {"type": "number"},
                "tokens_by_provider": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "endpoints.MetricsStepsResponse": {
            "type": "object",
            "properties": {
                "job_id": {"type": "string"},
                "steps": {"type": "object", "additionalProperties": {"$ref": "#/definitions/metrics.DetailedStats"}}
            }
        },
        "endpoints.PromptsListResponse": {
            "type": "object",
            "properties": {"prompts": {"type": "array", "items": {"$ref": "#/definitions/prompts.EmbeddedPrompt"}}}
        },
        "jobs.JobStatus": {
            "type": "object",
            "properties": {
                "transcription": {"type": "string"},
                "contentGeneration": {"type": "string"},
                "keyMoments": {"type": "string"},
                "summary": {"type": "string"},
                "social": {"type": "string"},
                "titles": {"type": "string"},
                "hashtags": {"type": "string"},
                "youtubeTimestamps": {"type": "string"}
            }
        },
        "jobs.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "project_id": {"type": "string"},
                "state": {"type": "string"},
                "transcript": {"$ref": "#/definitions/transcript.Transcript"},
                "status": {"$ref": "#/definitions/jobs.JobStatus"},
                "result": {"type": "object"},
                "error": {"type": "string"},
                "workflow_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "started_at": {"type": "string"},
                "completed_at": {"type": "string"}
            }
        },
        "jobs.PoolStatus": {
            "type": "object",
            "properties": {
                "provider": {"type": "string"},
                "workers": {"type": "integer"},
                "queued": {"type": "integer"},
                "in_flight": {"type": "integer"},
                "completed": {"type": "integer"},
                "failed": {"type": "integer"}
            }
        },
        "metrics.DetailedStats": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "success_count": {"type": "integer"},
                "error_count": {"type": "integer"},
                "total_cost_usd": {"type": "number"},
                "latency_p50_ms": {"type": "number"},
                "latency_p95_ms": {"type": "number"},
                "latency_p99_ms": {"type": "number"},
                "latency_avg_ms": {"type": "number"},
                "latency_min_ms": {"type": "number"},
                "latency_max_ms": {"type": "number"},
                "queue_avg_ms": {"type": "number"},
                "total_input_tokens": {"type": "integer"},
                "total_output_tokens": {"type": "integer"},
                "total_tokens": {"type": "integer"},
                "avg_input_tokens": {"type": "number"},
                "avg_output_tokens": {"type": "number"},
                "avg_total_tokens": {"type": "number"}
            }
        },
        "llmcall.Call": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "job_id": {"type": "string"},
                "step": {"type": "string"},
                "prompt_key": {"type": "string"},
                "prompt_hash": {"type": "string"},
                "timestamp": {"type": "string"},
                "latency_ms": {"type": "integer"},
                "queue_ms": {"type": "integer"},
                "provider": {"type": "string"},
                "model": {"type": "string"},
                "input_tokens": {"type": "integer"},
                "output_tokens": {"type": "integer"},
                "cost_usd": {"type": "number"},
                "response": {"type": "string"},
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "prompts.EmbeddedPrompt": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "text": {"type": "string"},
                "description": {"type": "string"},
                "variables": {"type": "array", "items": {"type": "string"}},
                "hash": {"type": "string"}
            }
        },
        "transcript.Chapter": {
            "type": "object",
            "properties": {
                "start": {"type": "integer"},
                "end": {"type": "integer"},
                "headline": {"type": "string"},
                "summary": {"type": "string"},
                "gist": {"type": "string"}
            }
        },
        "transcript.Transcript": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "audio_duration": {"type": "number"},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/transcript.Chapter"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "podsaas API",
	Description:      "Podcast marketing asset generation: jobs over finished transcripts, single-asset generation, LLM call history, usage metrics and prompt templates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
