package domain

import "time"

// DefaultSessionHistoryCapacity bounds the in-memory session history.
const DefaultSessionHistoryCapacity = 20

// SessionHistory is a bounded ring buffer of submitted command lines.
// The oldest entry is evicted when full. A command equal to the most recent
// entry is not appended again. It is owned by one session and has a single
// writer, so it carries no lock.
type SessionHistory struct {
	entries []string
	start   int
	size    int
}

// NewSessionHistory builds an empty history. Non-positive capacities fall back
// to DefaultSessionHistoryCapacity.
func NewSessionHistory(capacity int) *SessionHistory {
	if capacity <= 0 {
		capacity = DefaultSessionHistoryCapacity
	}
	return &SessionHistory{entries: make([]string, capacity)}
}

// Add appends command unless it is blank or repeats the most recent entry.
// It reports whether the command was appended.
func (h *SessionHistory) Add(command string) bool {
	if command == "" {
		return false
	}
	if last, ok := h.Last(); ok && last == command {
		return false
	}
	capacity := len(h.entries)
	if h.size < capacity {
		h.entries[(h.start+h.size)%capacity] = command
		h.size++
		return true
	}
	h.entries[h.start] = command
	h.start = (h.start + 1) % capacity
	return true
}

// Last returns the most recently appended command.
func (h *SessionHistory) Last() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	return h.entries[(h.start+h.size-1)%len(h.entries)], true
}

// Snapshot copies the entries, oldest first.
func (h *SessionHistory) Snapshot() []string {
	out := make([]string, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.entries[(h.start+i)%len(h.entries)])
	}
	return out
}

// Len returns the number of stored commands.
func (h *SessionHistory) Len() int {
	return h.size
}

// Cap returns the maximum number of stored commands.
func (h *SessionHistory) Cap() int {
	return len(h.entries)
}

// AnalysisRecord captures one completed (or failed) diagnosis in the analysis log.
type AnalysisRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	ExitCode   int       `json:"exit_code"`
	WorkingDir string    `json:"cwd"`
	Model      string    `json:"model"`
	Cause      string    `json:"cause,omitempty"`
	Fix        string    `json:"fix,omitempty"`
	Succeeded  bool      `json:"succeeded"`
	FromCache  bool      `json:"from_cache"`
	DurationMS int64     `json:"duration_ms"`
}

// CacheEntry stores a raw reasoning response keyed by the failure it explains.
type CacheEntry struct {
	Key       string    `json:"key"`
	Command   string    `json:"command"`
	Response  string    `json:"response"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}
