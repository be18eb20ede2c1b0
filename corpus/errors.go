package corpus

import "errors"

var (
	// ErrBadMatrix indicates a missing, corrupt, or unsupported embedding
	// matrix file.
	ErrBadMatrix = errors.New("bad embedding matrix file")

	// ErrDimensionMismatch indicates vectors of incompatible dimensions.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRowCountMismatch indicates the matrix row count differs from the
	// record count.
	ErrRowCountMismatch = errors.New("matrix row count does not match record count")
)
