// Package session wires the store, event bus, integrity monitor,
// snapshot recorder, and resolution gate into the declaration
// operations. One Service serves one database.
package session

import (
	"fmt"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/config"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/events"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/gate"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/integrity"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/snapshot"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region service

// Service is the top-level coordinator for declaration work.
type Service struct {
	st       *store.Store
	cfg      config.Config
	bus      *events.Bus
	recorder *snapshot.Recorder
	gate     *gate.Gate
	monitors map[string]*integrity.Monitor
}

// New creates a fully wired service over an open store.
func New(st *store.Store, cfg config.Config) *Service {
	s := &Service{
		st:       st,
		cfg:      cfg,
		bus:      events.NewBus(),
		recorder: snapshot.NewRecorder(st),
		gate:     gate.NewGate(cfg.AsGate()),
		monitors: make(map[string]*integrity.Monitor),
	}
	s.subscribe()
	return s
}

// Bus returns the session's event bus so additional consumers (replay
// harness, tooling) can subscribe. Handlers run synchronously on the
// mutating call.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// Store returns the underlying store for read-only tooling.
func (s *Service) Store() *store.Store {
	return s.st
}

// #endregion service

// #region monitor-wiring

// declarationSource adapts the store to the monitor's Source. Logged
// totals and tools come from the assignment's time-period-scoped logs.
type declarationSource struct {
	st            *store.Store
	declarationID string
	assignmentID  string
}

func (d declarationSource) DeclaredCount() (int, error) {
	return d.st.DeclaredCount(d.declarationID)
}

func (d declarationSource) EntryContents() ([]string, error) {
	return d.st.DeclaredContents(d.declarationID)
}

func (d declarationSource) LoggedTotal() (int, error) {
	logs, err := d.st.ScopedLogs(d.assignmentID)
	if err != nil {
		return 0, err
	}
	return len(logs), nil
}

func (d declarationSource) LoggedTools() ([]string, error) {
	logs, err := d.st.ScopedLogs(d.assignmentID)
	if err != nil {
		return nil, err
	}
	var tools []string
	seen := make(map[string]bool)
	for _, l := range logs {
		if !seen[l.ToolName] {
			seen[l.ToolName] = true
			tools = append(tools, l.ToolName)
		}
	}
	return tools, nil
}

// monitorFor returns the declaration's monitor, creating and
// activating it on first use.
func (s *Service) monitorFor(declarationID string) (*integrity.Monitor, error) {
	if m, ok := s.monitors[declarationID]; ok {
		return m, nil
	}
	d, err := s.st.GetDeclaration(declarationID)
	if err != nil {
		return nil, err
	}
	m := integrity.NewMonitor(declarationID, declarationSource{
		st:            s.st,
		declarationID: declarationID,
		assignmentID:  d.AssignmentID,
	}, s.cfg.AsIntegrity())
	if err := m.Activate(); err != nil {
		return nil, fmt.Errorf("activate monitor: %w", err)
	}
	s.monitors[declarationID] = m
	return m, nil
}

// subscribe routes mutation events to the integrity monitor. Handlers
// run in emission order on the mutating goroutine.
func (s *Service) subscribe() {
	s.bus.Subscribe(events.KindEntryDeleted, func(e events.Event) error {
		m, err := s.monitorFor(e.DeclarationID)
		if err != nil {
			return err
		}
		return m.HandleEntryDeleted(e.EntryID, origin.Origin(e.Origin))
	})
	s.bus.Subscribe(events.KindEntryModified, func(e events.Event) error {
		m, err := s.monitorFor(e.DeclarationID)
		if err != nil {
			return err
		}
		return m.HandleEntryModified(e.EntryID, e.PreviousContent, e.NewContent, e.DiffDelta)
	})
	s.bus.Subscribe(events.KindManualEntryAdded, func(e events.Event) error {
		m, err := s.monitorFor(e.DeclarationID)
		if err != nil {
			return err
		}
		return m.HandleManualAdded()
	})
	s.bus.Subscribe(events.KindManualEntryRemoved, func(e events.Event) error {
		m, err := s.monitorFor(e.DeclarationID)
		if err != nil {
			return err
		}
		return m.HandleManualRemoved()
	})
	s.bus.Subscribe(events.KindInteractionAssigned, func(e events.Event) error {
		if e.DeclarationID == "" {
			// no declaration yet for the target assignment
			return nil
		}
		m, err := s.monitorFor(e.DeclarationID)
		if err != nil {
			return err
		}
		return m.HandleInteractionAssigned()
	})
}

// #endregion monitor-wiring

// #region capture

// capture snapshots the declaration's current state together with its
// active warning set, then announces it on the bus.
func (s *Service) capture(declarationID string, trigger store.Trigger) (store.SnapshotRecord, error) {
	m, err := s.monitorFor(declarationID)
	if err != nil {
		return store.SnapshotRecord{}, err
	}
	rec, err := s.recorder.Capture(declarationID, trigger, m.Active())
	if err != nil {
		return store.SnapshotRecord{}, err
	}
	if err := s.bus.Emit(events.Event{
		Kind:          events.KindSnapshotCaptured,
		DeclarationID: declarationID,
		Trigger:       string(trigger),
		At:            time.Now().UTC(),
	}); err != nil {
		return store.SnapshotRecord{}, err
	}
	return rec, nil
}

// #endregion capture

