package navigation

import (
	"sync"
	"testing"
)

func results(paths ...string) []Item {
	items := make([]Item, len(paths))
	for i, p := range paths {
		items[i] = Item{Path: p, Rank: i}
	}
	return items
}

func TestNavigator_ZeroValue(t *testing.T) {
	var n Navigator
	if n.Mode() != ModeTree {
		t.Errorf("Mode() = %s, want %s", n.Mode(), ModeTree)
	}
	if n.Current() != "" {
		t.Errorf("Current() = %q, want empty", n.Current())
	}
	s := n.Next()
	if s.Cursor != 0 {
		t.Errorf("Next() on empty list moved cursor to %d", s.Cursor)
	}
	s = n.Prev()
	if s.Cursor != 0 {
		t.Errorf("Prev() on empty list moved cursor to %d", s.Cursor)
	}
}

func TestNavigator_CursorBounds(t *testing.T) {
	n := New()
	n.ShowResults(results("/p/a.png", "/p/b.png", "/p/c.png"))

	tests := []struct {
		name   string
		move   func() State
		cursor int
		path   string
	}{
		{"prev at start is no-op", n.Prev, 0, "/p/a.png"},
		{"next", n.Next, 1, "/p/b.png"},
		{"next to end", n.Next, 2, "/p/c.png"},
		{"next at end is no-op", n.Next, 2, "/p/c.png"},
		{"prev", n.Prev, 1, "/p/b.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.move()
			if s.Cursor != tt.cursor {
				t.Errorf("cursor = %d, want %d", s.Cursor, tt.cursor)
			}
			if s.Current != tt.path {
				t.Errorf("current = %q, want %q", s.Current, tt.path)
			}
		})
	}
}

func TestNavigator_ModeSwitching(t *testing.T) {
	n := New()

	n.ShowTree(3, []Item{{Path: "/p/a.png", FileID: 1}, {Path: "/p/b.txt", FileID: 2}})
	n.Next()
	if s := n.State(); s.Mode != ModeTree || s.FolderID != 3 || s.Current != "/p/b.txt" {
		t.Errorf("State() after ShowTree = %+v", s)
	}

	n.ShowResults(results("/p/z.png"))
	s := n.State()
	if s.Mode != ModeQueryResults {
		t.Errorf("Mode = %s, want %s", s.Mode, ModeQueryResults)
	}
	if s.Cursor != 0 || s.Current != "/p/z.png" {
		t.Errorf("ShowResults should reset cursor, got %+v", s)
	}
	if s.FolderID != 0 {
		t.Errorf("FolderID = %d, want 0", s.FolderID)
	}
}

func TestNavigator_StateIsCopy(t *testing.T) {
	n := New()
	items := results("/p/a.png")
	n.ShowResults(items)
	items[0].Path = "mutated"

	s := n.State()
	s.Items[0].Path = "also mutated"
	if n.Current() != "/p/a.png" {
		t.Errorf("Current() = %q, navigator shares memory with callers", n.Current())
	}
}

func TestNavigator_ConcurrentUse(t *testing.T) {
	n := New()
	n.ShowResults(results("/a", "/b", "/c", "/d"))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if i%2 == 0 {
					n.Next()
				} else {
					n.Prev()
				}
				_ = n.State()
			}
		}()
	}
	wg.Wait()

	if c := n.State().Cursor; c < 0 || c > 3 {
		t.Errorf("cursor out of range: %d", c)
	}
}
