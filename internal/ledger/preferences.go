package ledger

import "sync"

// Preferences persists client-local UI state across sessions.
type Preferences interface {
	ActiveTrip() string
	SetActiveTrip(tripID string) error
	ActiveTab() string
	SetActiveTab(tab string) error
}

// MemoryPreferences keeps preferences for the lifetime of the process.
type MemoryPreferences struct {
	mu   sync.Mutex
	trip string
	tab  string
}

func (p *MemoryPreferences) ActiveTrip() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trip
}

func (p *MemoryPreferences) SetActiveTrip(tripID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trip = tripID
	return nil
}

func (p *MemoryPreferences) ActiveTab() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

func (p *MemoryPreferences) SetActiveTab(tab string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tab = tab
	return nil
}
