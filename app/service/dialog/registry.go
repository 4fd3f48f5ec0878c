package dialog

import "sync"

// Registry maps owners to their active session. Each owner additionally gets
// a dedicated mutex so the engine processes one message at a time per owner
// while different owners proceed concurrently.
type Registry struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	locks    map[int64]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[int64]*Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (r *Registry) Get(ownerID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sessions[ownerID]
}

func (r *Registry) Put(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sess.OwnerID] = sess
}

func (r *Registry) Clear(ownerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, ownerID)
}

// LockOwner serializes message handling for one owner. The registry's own
// lock is only held long enough to look up the owner mutex, never across I/O.
func (r *Registry) LockOwner(ownerID int64) {
	r.ownerLock(ownerID).Lock()
}

func (r *Registry) UnlockOwner(ownerID int64) {
	r.ownerLock(ownerID).Unlock()
}

func (r *Registry) ownerLock(ownerID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[ownerID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[ownerID] = lock
	}

	return lock
}
