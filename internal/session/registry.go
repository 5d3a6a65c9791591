package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OwnerID identifies the user that owns a session.
type OwnerID string

// Kind is the feature a session belongs to. An owner may hold at most one
// live session per kind.
type Kind int

const (
	KindTimedCycle Kind = iota
	KindReviewDeck
	KindQuiz
)

// Kinds lists every session kind.
var Kinds = []Kind{KindTimedCycle, KindReviewDeck, KindQuiz}

func (k Kind) String() string {
	switch k {
	case KindTimedCycle:
		return "focus"
	case KindReviewDeck:
		return "flashcards"
	case KindQuiz:
		return "quiz"
	default:
		return "unknown"
	}
}

type slotKey struct {
	owner OwnerID
	kind  Kind
}

// Registry maps (owner, kind) to the live session handle.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu    sync.Mutex
	slots map[slotKey]*Handle
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[slotKey]*Handle),
		now:   time.Now,
	}
}

// TryAcquire reserves the (owner, kind) slot. It fails with an
// *AlreadyActiveError when the slot is taken.
func (r *Registry) TryAcquire(owner OwnerID, kind Kind) (*Handle, error) {
	key := slotKey{owner: owner, kind: kind}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.slots[key]; taken {
		return nil, &AlreadyActiveError{Owner: owner, Kind: kind}
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		ID:        uuid.New().String(),
		Owner:     owner,
		Kind:      kind,
		CreatedAt: r.now(),
		ctx:       ctx,
		cancel:    cancel,
		reg:       r,
	}
	r.slots[key] = h
	return h, nil
}

// Release frees the (owner, kind) slot. Releasing an empty slot is a no-op
// and returns false.
func (r *Registry) Release(owner OwnerID, kind Kind) bool {
	h, ok := r.Lookup(owner, kind)
	if !ok {
		return false
	}
	return h.Release()
}

// Cancel signals cancellation to the session in the slot. It reports whether
// a session was found. The session itself performs the terminal transition
// and releases the slot.
func (r *Registry) Cancel(owner OwnerID, kind Kind) bool {
	h, ok := r.Lookup(owner, kind)
	if !ok {
		return false
	}
	h.Cancel()
	return true
}

// Lookup returns the handle in the slot, if any.
func (r *Registry) Lookup(owner OwnerID, kind Kind) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.slots[slotKey{owner: owner, kind: kind}]
	return h, ok
}

// Len returns the number of occupied slots.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// Handles returns the occupied slots in no particular order.
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handles := make([]*Handle, 0, len(r.slots))
	for _, h := range r.slots {
		handles = append(handles, h)
	}
	return handles
}

// CancelAll signals cancellation to every live session.
func (r *Registry) CancelAll() {
	for _, h := range r.Handles() {
		h.Cancel()
	}
}

// remove deletes the slot only if it still belongs to h.
func (r *Registry) remove(h *Handle) bool {
	key := slotKey{owner: h.Owner, kind: h.Kind}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.slots[key]; !ok || cur != h {
		return false
	}
	delete(r.slots, key)
	return true
}

// Handle is a registry slot reservation. It carries the cancellation token
// of the session that occupies the slot.
type Handle struct {
	ID        string
	Owner     OwnerID
	Kind      Kind
	CreatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	reg    *Registry

	mu       sync.Mutex
	session  any
	released bool
}

// Context is cancelled when the session is cancelled or released.
func (h *Handle) Context() context.Context {
	return h.ctx
}

// Cancel signals cancellation. It does not release the slot by itself.
func (h *Handle) Cancel() {
	h.cancel()
}

// Release frees the slot. It returns true only for the call that actually
// released it.
func (h *Handle) Release() bool {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return false
	}
	h.released = true
	h.mu.Unlock()

	h.reg.remove(h)
	h.cancel()
	return true
}

// Released reports whether the slot has been released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Attach binds a populated session to the slot. Until then the slot is
// reserved but not routable.
func (h *Handle) Attach(s any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

// Session returns the attached session, or nil while initializing.
func (h *Handle) Session() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}
