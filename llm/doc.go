// Package llm defines the provider abstraction for text-generation backends.
//
// A Provider wraps one model-serving endpoint (e.g. a local Ollama instance)
// behind a uniform Generate/ListModels/HealthCheck surface. Concrete
// implementations live under llm/providers. The llm/retry subpackage offers
// an optional exponential-backoff decorator for callers that want retries;
// the generation pipeline itself performs none.
package llm
