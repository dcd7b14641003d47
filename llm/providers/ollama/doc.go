// Package ollama implements the llm.Provider interface against a local
// Ollama server's native HTTP API (/api/generate, /api/tags).
//
// The provider performs a single non-streaming generate call with a bounded
// timeout and no automatic retry; upstream failures are normalized to
// *types.Error so the caller can decide between fallback and hard failure.
package ollama
