package store

import (
	"errors"
	"path/filepath"
	"testing"
)

// newTestStore creates a Store with a temporary database for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestNew_SeedsCatalog(t *testing.T) {
	s := newTestStore(t)

	watches, err := s.Watches().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(watches) != 8 {
		t.Fatalf("len(watches) = %d, want 8 seeded entries", len(watches))
	}

	w, err := s.Watches().GetByID("1")
	if err != nil {
		t.Fatalf("GetByID(1) error = %v", err)
	}
	if w.Name != "Speedmaster" {
		t.Errorf("name = %s, want Speedmaster", w.Name)
	}
	if w.ImagePath == "" {
		t.Error("expected non-empty image path")
	}
}

func TestNew_SeedOnlyOnce(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()

	// Reopening must not duplicate the seed rows.
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer s.Close()

	watches, err := s.Watches().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(watches) != 8 {
		t.Errorf("len(watches) = %d, want 8 after reopen", len(watches))
	}
}

func TestWatchRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	repo := s.Watches()

	w := &Watch{
		ID:          "test-watch-1",
		Name:        "Test Chrono",
		Brand:       "Acme",
		Price:       1200.50,
		Description: "A test watch",
		ImagePath:   "test.png",
		CaseSize:    40,
		Style:       StyleClassic,
	}

	t.Run("create and get", func(t *testing.T) {
		if err := repo.Create(w); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := repo.GetByID("test-watch-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Name != "Test Chrono" {
			t.Errorf("name = %s, want Test Chrono", got.Name)
		}
		if got.Price != 1200.50 {
			t.Errorf("price = %f, want 1200.50", got.Price)
		}
		if got.Style != StyleClassic {
			t.Errorf("style = %s, want classic", got.Style)
		}
	})

	t.Run("update", func(t *testing.T) {
		w.Price = 999
		if err := repo.Update(w); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := repo.GetByID("test-watch-1")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if got.Price != 999 {
			t.Errorf("price = %f, want 999", got.Price)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete("test-watch-1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if _, err := repo.GetByID("test-watch-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update missing returns not found", func(t *testing.T) {
		missing := &Watch{ID: "nope", Name: "x", ImagePath: "x.png", Style: StyleClassic}
		if err := repo.Update(missing); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete missing returns not found", func(t *testing.T) {
		if err := repo.Delete("nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestImageCatalog(t *testing.T) {
	s := newTestStore(t)
	catalog := s.ImageCatalog("/assets/watches")

	t.Run("resolves known watch", func(t *testing.T) {
		path, err := catalog.ImagePath("1")
		if err != nil {
			t.Fatalf("ImagePath() error = %v", err)
		}
		want := filepath.Join("/assets/watches", "Speedmaster.png")
		if path != want {
			t.Errorf("path = %s, want %s", path, want)
		}
	})

	t.Run("unknown watch returns not found", func(t *testing.T) {
		if _, err := catalog.ImagePath("unknown"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ImagePath() error = %v, want ErrNotFound", err)
		}
	})
}
