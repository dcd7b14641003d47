package types

import (
	"strings"
	"time"
)

// DefaultBackend is the model-serving backend assumed when a request does not
// name one.
const DefaultBackend = "ollama"

// GenerationRequest is one project-generation request as accepted by the
// pipeline. Prompt must be non-empty; Backend defaults to DefaultBackend.
type GenerationRequest struct {
	Prompt  string `json:"prompt"`
	Backend string `json:"backend,omitempty"`
}

// Normalize trims whitespace and fills in defaults. It does not validate.
func (r *GenerationRequest) Normalize() {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Backend == "" {
		r.Backend = DefaultBackend
	}
}

// GeneratedFile is a single file produced by the structure synthesizer.
// Name is a path relative to the project directory; Content is opaque text.
type GeneratedFile struct {
	Name     string `json:"name" bson:"name"`
	Content  string `json:"content" bson:"content"`
	Language string `json:"language" bson:"language"`
}

// ProjectManifest is the durable record of one generation request. It is
// written once per generation and never mutated afterwards.
type ProjectManifest struct {
	ProjectID      string          `json:"project_id" bson:"project_id"`
	Prompt         string          `json:"prompt" bson:"prompt"`
	Backend        string          `json:"backend" bson:"backend"`
	GeneratedAt    time.Time       `json:"generated_at" bson:"generated_at"`
	Files          []GeneratedFile `json:"files" bson:"files"`
	Output         string          `json:"output" bson:"output"`
	ProjectPath    string          `json:"project_path" bson:"project_path"`
	FallbackReason string          `json:"fallback_reason,omitempty" bson:"fallback_reason,omitempty"`
}

// GenerationResult is what the pipeline returns to the HTTP layer on success.
type GenerationResult struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Files       []GeneratedFile `json:"files"`
	Output      string          `json:"output"`
	ProjectPath string          `json:"project_path"`
}
