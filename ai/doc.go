// Package ai defines the model service interfaces consumed by the retrieval
// and enrichment pipeline: text embedding, cross-encoder reranking, and
// generative text. The models themselves are external collaborators; this
// package treats them as opaque scoring and generation functions.
//
// Production implementations live in the openai subpackage; deterministic
// test doubles live in the mock subpackage.
package ai
