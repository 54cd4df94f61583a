package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/internal/database"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// InmuebleQueue is an in-memory queue of listing-row batches, feeding batch
// writers such as the slug backfill.
type InmuebleQueue struct {
	items    chan []*database.Inmueble
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*database.Inmueble) error
}

// NewInmuebleQueue creates a new queue with the specified buffer size.
func NewInmuebleQueue(bufferSize int, logger *logrus.Logger) *InmuebleQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &InmuebleQueue{
		items:    make(chan []*database.Inmueble, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*database.Inmueble) error, 0),
	}
}

// Push adds a batch to the queue without blocking; a full queue is an error
// the caller decides how to handle.
func (q *InmuebleQueue) Push(batch []*database.Inmueble) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch.
func (q *InmuebleQueue) Subscribe(handler func([]*database.Inmueble) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue.
func (q *InmuebleQueue) Start() {
	go q.process()
}

func (q *InmuebleQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

func (q *InmuebleQueue) processBatch(batch []*database.Inmueble) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added.
func (q *InmuebleQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue.
func (q *InmuebleQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *InmuebleQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
