// Package session holds per-session application state outside the core: the
// current point table, criteria configuration, and the marker snapshot. The
// core engines never read this state; the server layer loads a session,
// calls the core, and stores the result back.
package session

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/locus-group/facility-cli/internal/model"
)

// Session is the state owned by one client session.
type Session struct {
	ID             string            `json:"id"`
	Points         model.PointSet    `json:"points"`
	Criteria       model.CriteriaSet `json:"criteria"`
	MarkerSnapshot string            `json:"-"`
	DefaultRate    float64           `json:"default_transport_rate"`
	DefaultMass    float64           `json:"default_mass"`
}

// Clone returns a deep copy of the session. The store hands out and accepts
// only clones, so handlers can mutate their copy without synchronizing with
// other requests on the same session.
func (s Session) Clone() Session {
	out := s
	if s.Points != nil {
		out.Points = make(model.PointSet, len(s.Points))
		for i, p := range s.Points {
			p.Criteria = maps.Clone(p.Criteria)
			out.Points[i] = p
		}
	}
	out.Criteria = maps.Clone(s.Criteria)
	return out
}

type entry struct {
	sess    Session
	touched time.Time
}

// Store is an in-memory session store. Sessions live until explicitly deleted
// or swept by TTL.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*entry
	defaultRate float64
	defaultMass float64
	now         func() time.Time
}

// NewStore creates a Store. New sessions start with the given default marker
// attributes.
func NewStore(defaultRate, defaultMass float64) *Store {
	return &Store{
		sessions:    make(map[string]*entry),
		defaultRate: defaultRate,
		defaultMass: defaultMass,
		now:         time.Now,
	}
}

// Create initializes a fresh session and returns it.
func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{
		ID:          uuid.NewString(),
		Points:      model.PointSet{},
		Criteria:    model.CriteriaSet{},
		DefaultRate: s.defaultRate,
		DefaultMass: s.defaultMass,
	}
	s.sessions[sess.ID] = &entry{sess: sess, touched: s.now()}
	return sess.Clone()
}

// Get returns a deep copy of the session by id.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	e.touched = s.now()
	return e.sess.Clone(), true
}

// Put replaces the stored state for the session. Unknown ids are ignored so
// that a sweep racing a request cannot resurrect a session.
func (s *Store) Put(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sess.ID]
	if !ok {
		return
	}
	e.sess = sess.Clone()
	e.touched = s.now()
}

// Delete removes the session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions untouched for longer than ttl and returns how many
// were removed.
func (s *Store) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	var removed int
	for id, e := range s.sessions {
		if e.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
