package health

import "context"

// CachePinger checks recommendation cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// IndexInfo reports the size of the served neighbor index.
type IndexInfo interface {
	Len() int
}
