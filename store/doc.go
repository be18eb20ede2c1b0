// Package store defines the external persistence interfaces the pipeline
// depends on: the artifact store that holds serialized result workbooks and
// the corpus source that staleness-checks and fetches corpus files.
//
// The s3 subpackage implements both against Amazon S3; the badger subpackage
// provides a local artifact store for development and tests.
package store
