package tracksim

import "github.com/kailas-cloud/tracksim/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrAlreadyExists   = domain.ErrAlreadyExists
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrEmptyCatalog    = domain.ErrEmptyCatalog
	ErrIndexBuild      = domain.ErrIndexBuild
)
