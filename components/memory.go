package components

import (
	"sync"

	"github.com/bububa/tmdb-agent/schema"
)

// Memory manages the history of messages in an agent conversation.
type Memory struct {
	history        []*Message
	maxMessages    int
	currentTurnID  string
	lck            sync.RWMutex
	initialTurnID  string
	initialHistory []*Message
}

// NewMemory initializes the memory with an empty history and optional constraints.
//
//   - maxMessages: Maximum number of messages to keep in history. When exceeded, oldest messages are removed first.
func NewMemory(maxMessages int) *Memory {
	return &Memory{
		maxMessages: maxMessages,
	}
}

// NewTurn initializes a new turn with a unique ID.
func (m *Memory) NewTurn() {
	m.lck.Lock()
	defer m.lck.Unlock()
	m.currentTurnID = NewTurnID()
}

// SetCurrentTurnID sets the current turn ID.
func (m *Memory) SetCurrentTurnID(turnID string) {
	m.lck.Lock()
	defer m.lck.Unlock()
	m.currentTurnID = turnID
}

// CurrentTurnID returns the current turn ID.
func (m *Memory) CurrentTurnID() string {
	m.lck.RLock()
	defer m.lck.RUnlock()
	return m.currentTurnID
}

// NewMessage adds a message to the memory and manages overflow.
func (m *Memory) NewMessage(role MessageRole, content schema.Schema) *Message {
	m.lck.Lock()
	defer m.lck.Unlock()
	if m.currentTurnID == "" {
		m.currentTurnID = NewTurnID()
	}
	msg := NewMessage(role, content).SetTurnID(m.currentTurnID)
	m.history = append(m.history, msg)
	m.manageOverflow()
	return msg
}

// manageOverflow removes oldest messages when exceeding maxMessages.
func (m *Memory) manageOverflow() {
	if m.maxMessages <= 0 {
		return
	}
	for len(m.history) > m.maxMessages {
		m.history = m.history[1:]
	}
}

// History returns a copy of the messages in the memory.
func (m *Memory) History() []Message {
	m.lck.RLock()
	defer m.lck.RUnlock()
	list := make([]Message, len(m.history))
	for idx, msg := range m.history {
		list[idx] = *msg
	}
	return list
}

// MessageCount returns the number of messages in the memory.
func (m *Memory) MessageCount() int {
	m.lck.RLock()
	defer m.lck.RUnlock()
	return len(m.history)
}

// Reset resets the memory to its initial state.
func (m *Memory) Reset() {
	m.lck.Lock()
	defer m.lck.Unlock()
	m.currentTurnID = m.initialTurnID
	m.history = m.history[:0]
	m.history = append(m.history, m.initialHistory...)
}

// Checkpoint marks the current state as the reset target.
func (m *Memory) Checkpoint() {
	m.lck.Lock()
	defer m.lck.Unlock()
	m.initialTurnID = m.currentTurnID
	m.initialHistory = make([]*Message, len(m.history))
	copy(m.initialHistory, m.history)
}

// Copy returns a deep copy of the memory.
func (m *Memory) Copy() *Memory {
	m.lck.RLock()
	defer m.lck.RUnlock()
	clone := &Memory{
		maxMessages:   m.maxMessages,
		currentTurnID: m.currentTurnID,
		initialTurnID: m.initialTurnID,
	}
	clone.history = make([]*Message, len(m.history))
	copy(clone.history, m.history)
	clone.initialHistory = make([]*Message, len(m.initialHistory))
	copy(clone.initialHistory, m.initialHistory)
	return clone
}
