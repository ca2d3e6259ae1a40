package battle

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager tracks all active battles, keyed by battle ID.
// All methods are safe for concurrent use.
type Manager struct {
	cfg     Config
	mu      sync.RWMutex
	battles map[string]*Session
}

// NewManager creates an empty Manager whose sessions are built from cfg.
//
// Postcondition: Returns a non-nil Manager ready for use.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, battles: make(map[string]*Session)}
}

// StartBattle creates a session under a freshly generated battle ID.
//
// Postcondition: Returns the registered session, or the error from New
// (wrapping ErrTemplateNotFound for unknown species) with nothing registered.
func (m *Manager) StartBattle(player, opponent Combatant, bctx Context) (*Session, error) {
	s, err := New(m.cfg, uuid.NewString(), player, opponent, bctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.battles[s.ID()] = s
	return s, nil
}

// Get returns the battle with id.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.battles[id]
	return s, ok
}

// SubmitBattleAction queues an action by wire names. payload is the move ID
// for attack and the item ID for item; it is ignored otherwise. Outcomes are
// observed through BattleResult.
//
// Postcondition: Returns an error wrapping ErrBattleNotFound, ErrInvalidAction
// or ErrNotApplicable when the submission is rejected.
func (m *Manager) SubmitBattleAction(id string, side Side, actionType, payload string) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("battle %q: %w", id, ErrBattleNotFound)
	}
	t, err := ParseActionType(actionType)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	a := Action{Type: t}
	switch t {
	case ActionAttack:
		a.MoveID = payload
	case ActionItem:
		a.ItemID = payload
	}
	return s.Submit(side, a)
}

// BattleResult returns the result projection of battle id.
func (m *Manager) BattleResult(id string) (Result, error) {
	s, ok := m.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("battle %q: %w", id, ErrBattleNotFound)
	}
	return s.Result(), nil
}

// EndBattle removes battle id and returns its final result.
//
// Postcondition: The battle is no longer tracked; ErrBattleNotFound if it never was.
func (m *Manager) EndBattle(id string) (Result, error) {
	m.mu.Lock()
	s, ok := m.battles[id]
	delete(m.battles, id)
	m.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("battle %q: %w", id, ErrBattleNotFound)
	}
	return s.Result(), nil
}

// Count returns the number of tracked battles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}
