package marriage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRequestExpired is returned when a button belongs to a wait that already ended
	ErrRequestExpired = errors.New("request expired")

	// ErrNotRecipient is returned when someone other than the addressed user presses a button
	ErrNotRecipient = errors.New("not the recipient of this request")
)

type pendingRequest struct {
	recipientID int64
	reply       chan bool
}

// PendingRegistry tracks proposals and divorce confirmations waiting for a
// button press. Each wait is independent; resolving one never blocks another.
type PendingRegistry struct {
	mu       sync.Mutex
	requests map[string]*pendingRequest
}

// NewPendingRegistry creates an empty registry
func NewPendingRegistry() *PendingRegistry {
	return &PendingRegistry{
		requests: make(map[string]*pendingRequest),
	}
}

// Open registers a wait that only recipientID can resolve. It returns the
// token to embed in button IDs and the channel the answer arrives on.
func (r *PendingRegistry) Open(recipientID int64) (string, <-chan bool) {
	token := uuid.NewString()
	reply := make(chan bool, 1)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[token] = &pendingRequest{
		recipientID: recipientID,
		reply:       reply,
	}
	return token, reply
}

// Resolve delivers the recipient's answer. A request resolves at most once.
func (r *PendingRegistry) Resolve(token string, userID int64, accepted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[token]
	if !ok {
		return ErrRequestExpired
	}
	if req.recipientID != userID {
		return ErrNotRecipient
	}

	delete(r.requests, token)
	req.reply <- accepted
	return nil
}

// Await blocks until the request is resolved, the timeout passes or ctx ends.
// It reports the answer and whether one arrived. The request is removed either way.
func (r *PendingRegistry) Await(ctx context.Context, token string, reply <-chan bool, timeout time.Duration) (accepted bool, answered bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case accepted := <-reply:
		return accepted, true
	case <-ctx.Done():
		r.mu.Lock()
		delete(r.requests, token)
		r.mu.Unlock()

		// A press may have landed between the deadline and the delete
		select {
		case accepted := <-reply:
			return accepted, true
		default:
			return false, false
		}
	}
}

// Close drops a request that will never be awaited
func (r *PendingRegistry) Close(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, token)
}

// Len returns the number of open requests
func (r *PendingRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}
