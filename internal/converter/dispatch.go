package converter

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridfix/gridfix/internal/coordinate"
)

// convertFunc computes all representations of one coordinate. Swappable so
// tests can stall the worker.
type convertFunc func(*coordinate.Coordinate) (*coordinate.Conversions, error)

// job is one queued request. The response channel is buffered so the worker
// never blocks delivering a result to a caller that already timed out.
type job struct {
	request  workerRequest
	response chan workerResponse
	progress func(completed, total int)

	// abandoned is set when the caller stops waiting. The worker still
	// finishes a job it already started, but skips abandoned jobs it finds
	// in the queue.
	abandoned atomic.Bool
}

// dispatcher serializes conversion work through a single worker goroutine
// with a bounded FIFO queue. At most one job runs at a time; callers that
// cannot enqueue fail fast with ErrQueueFull instead of blocking.
type dispatcher struct {
	logger        zerolog.Logger
	timeout       time.Duration
	progressEvery int
	convert       convertFunc

	queue     chan *job
	nextID    atomic.Uint64
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func newDispatcher(logger zerolog.Logger, queueCapacity int, timeout time.Duration, convert convertFunc) *dispatcher {
	d := &dispatcher{
		logger:        logger.With().Str("component", "dispatcher").Logger(),
		timeout:       timeout,
		progressEvery: 100,
		convert:       convert,
		queue:         make(chan *job, queueCapacity),
		done:          make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// submit enqueues a request without blocking. It fails with ErrQueueFull when
// the queue is at capacity and ErrClosed after close.
func (d *dispatcher) submit(req workerRequest, progress func(completed, total int)) (*job, error) {
	select {
	case <-d.done:
		return nil, ErrClosed
	default:
	}

	req.ID = d.nextID.Add(1)
	j := &job{
		request:  req,
		response: make(chan workerResponse, 1),
		progress: progress,
	}

	select {
	case d.queue <- j:
		return j, nil
	case <-d.done:
		return nil, ErrClosed
	default:
		d.logger.Warn().
			Uint64("job_id", req.ID).
			Int("queue_capacity", cap(d.queue)).
			Msg("dispatch queue full, rejecting request")
		return nil, ErrQueueFull
	}
}

// await blocks until the job completes, the timeout elapses, or the context
// is cancelled. On timeout the job is marked abandoned so the worker can skip
// it if it has not started yet.
func (d *dispatcher) await(ctx context.Context, j *job) (workerResponse, error) {
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case resp := <-j.response:
		if resp.err != nil {
			return resp, resp.err
		}
		return resp, nil
	case <-timer.C:
		j.abandoned.Store(true)
		d.logger.Warn().
			Uint64("job_id", j.request.ID).
			Dur("timeout", d.timeout).
			Msg("conversion timed out")
		return workerResponse{}, ErrWorkerTimeout
	case <-ctx.Done():
		j.abandoned.Store(true)
		return workerResponse{}, ctx.Err()
	case <-d.done:
		return workerResponse{}, ErrClosed
	}
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			d.drain()
			return
		case j := <-d.queue:
			d.handle(j)
		}
	}
}

// drain rejects every job still queued at shutdown.
func (d *dispatcher) drain() {
	for {
		select {
		case j := <-d.queue:
			j.response <- workerResponse{Type: responseError, ID: j.request.ID, Error: ErrClosed.Error(), err: ErrClosed}
		default:
			return
		}
	}
}

func (d *dispatcher) handle(j *job) {
	if j.abandoned.Load() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("conversion panicked: %v", r)
			d.logger.Error().
				Uint64("job_id", j.request.ID).
				Interface("panic", r).
				Msg("worker recovered from panic")
			j.response <- workerResponse{Type: responseError, ID: j.request.ID, Error: err.Error(), err: err}
		}
	}()

	switch j.request.Type {
	case requestPing:
		j.response <- workerResponse{Type: responseResult, ID: j.request.ID}

	case requestConvert:
		conv, err := d.convert(j.request.Coordinate)
		if err != nil {
			j.response <- workerResponse{Type: responseError, ID: j.request.ID, Error: err.Error(), err: err}
			return
		}
		j.response <- workerResponse{Type: responseResult, ID: j.request.ID, Conversions: conv}

	case requestBatch:
		total := len(j.request.Coordinates)
		items := make([]batchItem, 0, total)
		for i, c := range j.request.Coordinates {
			if j.abandoned.Load() {
				return
			}
			conv, err := d.convert(c)
			if err != nil {
				items = append(items, batchItem{Error: err.Error(), err: err})
			} else {
				items = append(items, batchItem{Conversions: conv})
			}
			if j.progress != nil && (i+1)%d.progressEvery == 0 {
				j.progress(i+1, total)
			}
		}
		j.response <- workerResponse{Type: responseBatchResult, ID: j.request.ID, Batch: items}

	default:
		err := fmt.Errorf("unknown request type %q", j.request.Type)
		j.response <- workerResponse{Type: responseError, ID: j.request.ID, Error: err.Error(), err: err}
	}
}

// close stops the worker and rejects everything still queued. Idempotent.
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}
