// Package corpus loads and indexes the research corpus: an ordered sequence
// of typed records, a kind partition over their row ids, and a memory-mapped
// float32 embedding matrix with one row per record.
//
// The index is constructed exactly once per process via Manager.Ensure and
// shared read-only by all concurrent jobs; no per-request locking is needed
// after initialization.
package corpus
