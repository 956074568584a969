package converter

import "errors"

var (
	// ErrQueueFull is returned when the dispatch queue is at capacity and a
	// new request cannot be accepted.
	ErrQueueFull = errors.New("conversion queue is full")

	// ErrWorkerTimeout is returned when a conversion does not complete
	// within the request timeout. The job is abandoned, not cancelled: if
	// the worker finishes later the result is discarded.
	ErrWorkerTimeout = errors.New("conversion timed out")

	// ErrClosed is returned for requests submitted after Close, and sent to
	// requests still queued when Close runs.
	ErrClosed = errors.New("converter is closed")

	// ErrResolverUnavailable is returned when a what3words operation needs
	// the external resolver and none is configured.
	ErrResolverUnavailable = errors.New("what3words resolver is not configured")
)
