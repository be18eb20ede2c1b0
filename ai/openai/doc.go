// Package openai implements the ai service interfaces against
// OpenAI-compatible HTTP APIs (OpenAI, Ollama, LocalAI, vLLM) plus a
// TEI-style /rerank endpoint for cross-encoder scoring.
package openai
