package navigation

import (
	"sync"
)

// Mode says which list the cursor walks.
type Mode string

const (
	ModeTree         Mode = "TREE"
	ModeQueryResults Mode = "QUERY_RESULTS"
)

// Item is one entry of the active list.
type Item struct {
	Path     string  `json:"path"`
	Rank     int     `json:"rank"`
	Distance float32 `json:"distance,omitempty"`
	FileID   int64   `json:"file_id,omitempty"`
}

// State is a copy of the navigator for display.
type State struct {
	Mode     Mode   `json:"mode"`
	FolderID int64  `json:"folder_id,omitempty"`
	Cursor   int    `json:"cursor"`
	Current  string `json:"current"`
	Items    []Item `json:"items"`
}

// Navigator holds the active list, a cursor into it, and the mode.
// The zero value is an empty TREE view.
type Navigator struct {
	mu       sync.RWMutex
	mode     Mode
	folderID int64
	items    []Item
	cursor   int
}

// New returns an empty navigator in TREE mode.
func New() *Navigator {
	return &Navigator{mode: ModeTree}
}

// ShowResults makes items the active list in QUERY_RESULTS mode and moves
// the cursor to the first result.
func (n *Navigator) ShowResults(items []Item) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mode = ModeQueryResults
	n.folderID = 0
	n.items = append([]Item(nil), items...)
	n.cursor = 0
}

// ShowTree makes the files of a folder the active list in TREE mode.
func (n *Navigator) ShowTree(folderID int64, items []Item) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mode = ModeTree
	n.folderID = folderID
	n.items = append([]Item(nil), items...)
	n.cursor = 0
}

// Next advances the cursor. It is a no-op on the last item.
func (n *Navigator) Next() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cursor+1 < len(n.items) {
		n.cursor++
	}
	return n.stateLocked()
}

// Prev moves the cursor back. It is a no-op on the first item.
func (n *Navigator) Prev() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cursor > 0 {
		n.cursor--
	}
	return n.stateLocked()
}

// Current returns the selected path, or "" when the list is empty.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.currentLocked()
}

// Mode returns the current mode.
func (n *Navigator) Mode() Mode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.modeLocked()
}

// State returns a copy of the navigator.
func (n *Navigator) State() State {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.stateLocked()
}

func (n *Navigator) modeLocked() Mode {
	if n.mode == "" {
		return ModeTree
	}
	return n.mode
}

func (n *Navigator) currentLocked() string {
	if n.cursor < 0 || n.cursor >= len(n.items) {
		return ""
	}
	return n.items[n.cursor].Path
}

func (n *Navigator) stateLocked() State {
	items := make([]Item, len(n.items))
	copy(items, n.items)
	return State{
		Mode:     n.modeLocked(),
		FolderID: n.folderID,
		Cursor:   n.cursor,
		Current:  n.currentLocked(),
		Items:    items,
	}
}
