package workflow

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vardkurs/coursegen-backend/internal/logger"
)

// Manager holds one Orchestrator per course. Orchestrators are created
// lazily on first use and live for the process lifetime; the durable store
// is the recovery path across restarts.
type Manager struct {
	mu            sync.Mutex
	orchestrators map[uuid.UUID]*Orchestrator

	log   *logger.Logger
	gen   GenerationAdapter
	store Store
}

func NewManager(gen GenerationAdapter, store Store, baseLog *logger.Logger) *Manager {
	return &Manager{
		orchestrators: make(map[uuid.UUID]*Orchestrator),
		log:           baseLog.With("service", "WorkflowManager"),
		gen:           gen,
		store:         store,
	}
}

// Create registers a fresh orchestrator for a new course and returns it.
// An existing orchestrator for the same course is replaced.
func (m *Manager) Create(courseID uuid.UUID, settings CourseSettings) *Orchestrator {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := NewOrchestrator(courseID, settings, m.gen, m.store, m.log)
	m.orchestrators[courseID] = o
	return o
}

// Get returns the orchestrator for a course, or false when the course is
// unknown to this process.
func (m *Manager) Get(courseID uuid.UUID) (*Orchestrator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orchestrators[courseID]
	return o, ok
}

// GetOrCreate returns the orchestrator for a course, creating one with
// default settings when none exists yet.
func (m *Manager) GetOrCreate(courseID uuid.UUID) *Orchestrator {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orchestrators[courseID]; ok {
		return o
	}
	o := NewOrchestrator(courseID, DefaultSettings(), m.gen, m.store, m.log)
	m.orchestrators[courseID] = o
	return o
}

// Remove drops the in-memory orchestrator for a course. Durable rows are
// untouched.
func (m *Manager) Remove(courseID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orchestrators, courseID)
}
