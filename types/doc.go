// Package types defines the shared data model and error types used across
// the Genesis service: generation requests, generated files, project
// manifests, and the unified error taxonomy.
package types
