package storage

import (
	"context"
	"errors"
	"testing"
)

func registerFolder(t *testing.T, repo *FolderRepo, path string) FolderRecord {
	t.Helper()
	folder, err := repo.Register(context.Background(), path)
	if err != nil {
		t.Fatalf("Register(%s) error = %v", path, err)
	}
	return folder
}

func TestFileRepo_Register_AssignsFreshIDs(t *testing.T) {
	db := newTestDB(t)
	folder := registerFolder(t, NewFolderRepo(db), "/photos")
	repo := NewFileRepo(db)
	ctx := context.Background()

	first, err := repo.Register(ctx, folder.ID, "a.png", "/photos/a.png")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	second, err := repo.Register(ctx, folder.ID, "a.png", "/photos/a.png")
	if err != nil {
		t.Fatalf("second Register() error = %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("Register() IDs not monotonic: first=%d second=%d", first.ID, second.ID)
	}

	files, err := repo.ListByFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("len(ListByFolder()) = %d, want 2", len(files))
	}
}

func TestFileRepo_GetOrRegister_Deduplicates(t *testing.T) {
	db := newTestDB(t)
	folder := registerFolder(t, NewFolderRepo(db), "/photos")
	repo := NewFileRepo(db)
	ctx := context.Background()

	first, err := repo.GetOrRegister(ctx, folder.ID, "a.png", "/photos/a.png")
	if err != nil {
		t.Fatalf("GetOrRegister() error = %v", err)
	}
	again, err := repo.GetOrRegister(ctx, folder.ID, "a.png", "/photos/a.png")
	if err != nil {
		t.Fatalf("second GetOrRegister() error = %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("GetOrRegister() ID = %d, want existing %d", again.ID, first.ID)
	}

	other, err := repo.GetOrRegister(ctx, folder.ID, "b.txt", "/photos/b.txt")
	if err != nil {
		t.Fatalf("GetOrRegister(b.txt) error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("GetOrRegister() reused an ID for a different path")
	}

	files, err := repo.ListByFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("len(ListByFolder()) = %d, want 2", len(files))
	}
}

func TestFileRepo_GetOrRegister_ScopedToFolder(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepo(db)
	parent := registerFolder(t, folders, "/photos")
	child := registerFolder(t, folders, "/photos/sub")
	repo := NewFileRepo(db)
	ctx := context.Background()

	fromParent, err := repo.GetOrRegister(ctx, parent.ID, "c.jpg", "/photos/sub/c.jpg")
	if err != nil {
		t.Fatalf("GetOrRegister(parent) error = %v", err)
	}
	fromChild, err := repo.GetOrRegister(ctx, child.ID, "c.jpg", "/photos/sub/c.jpg")
	if err != nil {
		t.Fatalf("GetOrRegister(child) error = %v", err)
	}
	if fromChild.ID == fromParent.ID {
		t.Fatalf("GetOrRegister() reused parent record %d for the child folder", fromParent.ID)
	}
	if fromChild.FolderID != child.ID {
		t.Errorf("GetOrRegister() FolderID = %d, want %d", fromChild.FolderID, child.ID)
	}

	again, err := repo.GetOrRegister(ctx, child.ID, "c.jpg", "/photos/sub/c.jpg")
	if err != nil {
		t.Fatalf("second GetOrRegister(child) error = %v", err)
	}
	if again.ID != fromChild.ID {
		t.Errorf("GetOrRegister() ID = %d, want existing %d", again.ID, fromChild.ID)
	}

	for _, f := range []FolderRecord{parent, child} {
		files, err := repo.ListByFolder(ctx, f.ID)
		if err != nil {
			t.Fatalf("ListByFolder(%d) error = %v", f.ID, err)
		}
		if len(files) != 1 {
			t.Errorf("len(ListByFolder(%d)) = %d, want 1", f.ID, len(files))
		}
	}
}

func TestFileRepo_GetByID(t *testing.T) {
	db := newTestDB(t)
	folder := registerFolder(t, NewFolderRepo(db), "/photos")
	repo := NewFileRepo(db)
	ctx := context.Background()

	created, err := repo.Register(ctx, folder.ID, "c.jpg", "/photos/sub/c.jpg")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != created {
		t.Errorf("GetByID() = %+v, want %+v", got, created)
	}

	if _, err := repo.GetByID(ctx, created.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFileRepo_ListByFolder(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderRepo(db)
	photos := registerFolder(t, folders, "/photos")
	other := registerFolder(t, folders, "/other")
	repo := NewFileRepo(db)
	ctx := context.Background()

	for _, f := range []struct {
		folder   int64
		name     string
		fullPath string
	}{
		{photos.ID, "c.jpg", "/photos/sub/c.jpg"},
		{photos.ID, "a.png", "/photos/a.png"},
		{other.ID, "x.png", "/other/x.png"},
		{photos.ID, "b.txt", "/photos/b.txt"},
	} {
		if _, err := repo.Register(ctx, f.folder, f.name, f.fullPath); err != nil {
			t.Fatalf("Register(%s) error = %v", f.fullPath, err)
		}
	}

	files, err := repo.ListByFolder(ctx, photos.ID)
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}

	want := []string{"/photos/a.png", "/photos/b.txt", "/photos/sub/c.jpg"}
	if len(files) != len(want) {
		t.Fatalf("ListByFolder() returned %d files, want %d", len(files), len(want))
	}
	for i, w := range want {
		if files[i].FullPath != w {
			t.Errorf("ListByFolder()[%d] = %q, want %q", i, files[i].FullPath, w)
		}
	}
}

func TestFileRepo_Register_UnknownFolder(t *testing.T) {
	db := newTestDB(t)
	repo := NewFileRepo(db)

	if _, err := repo.Register(context.Background(), 999, "a.png", "/nowhere/a.png"); err == nil {
		t.Error("Register() with unknown folder should violate the foreign key")
	}
}
