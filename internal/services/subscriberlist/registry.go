package subscriberlist

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry хранит экраны операторов по идентификатору сессии.
// Экран, к которому не обращались дольше ttl, удаляется. При переполнении
// вытесняется экран с самым давним обращением.
type Registry struct {
	mu    sync.Mutex
	views map[string]*registryEntry
	ttl   time.Duration
	limit int
	now   func() time.Time
}

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// NewRegistry создаёт пустой реестр. Нулевые ttl и limit отключают
// соответствующее ограничение.
func NewRegistry(ttl time.Duration, limit int) *Registry {
	return &Registry{
		views: make(map[string]*registryEntry),
		ttl:   ttl,
		limit: limit,
		now:   time.Now,
	}
}

// Add регистрирует экран под новым идентификатором.
func (r *Registry) Add(v *View) string {
	id := uuid.NewString()
	r.Put(id, v)
	return id
}

// Put регистрирует экран под заданным идентификатором, заменяя прежний.
func (r *Registry) Put(id string, v *View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)
	if _, exists := r.views[id]; !exists && r.limit > 0 && len(r.views) >= r.limit {
		r.evictOldestLocked()
	}
	r.views[id] = &registryEntry{view: v, lastSeen: now}
}

// Get возвращает экран по идентификатору и продлевает ему жизнь.
func (r *Registry) Get(id string) (*View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.views[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	if r.expired(e, now) {
		delete(r.views, id)
		return nil, false
	}
	e.lastSeen = now
	return e.view, true
}

// Remove удаляет экран.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.views, id)
	r.mu.Unlock()
}

// Len возвращает число живых экранов.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(r.now())
	return len(r.views)
}

func (r *Registry) expired(e *registryEntry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, e := range r.views {
		if r.expired(e, now) {
			delete(r.views, id)
		}
	}
}

func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, e := range r.views {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(r.views, oldestID)
}
