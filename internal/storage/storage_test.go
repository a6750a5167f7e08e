package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/greenbin-app/greenbin/internal/models"
)

func TestGetSetDelete(t *testing.T) {
	store := New()

	if _, exists := store.Get("missing"); exists {
		t.Fatal("expected missing session to not exist")
	}

	session := &models.Session{ID: "sess_1", ZIP: "18015"}
	store.Set("sess_1", session)

	got, exists := store.Get("sess_1")
	if !exists {
		t.Fatal("expected session to exist after Set")
	}
	if got.ZIP != "18015" {
		t.Errorf("expected ZIP 18015, got %s", got.ZIP)
	}

	store.Delete("sess_1")
	if _, exists := store.Get("sess_1"); exists {
		t.Error("expected session to be gone after Delete")
	}
}

func TestGetAllReturnsCopy(t *testing.T) {
	store := New()
	store.Set("a", &models.Session{ID: "a"})
	store.Set("b", &models.Session{ID: "b"})

	all := store.GetAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(all))
	}

	delete(all, "a")
	if _, exists := store.Get("a"); !exists {
		t.Error("mutating the GetAll result should not affect the store")
	}
}

func TestConcurrentAccess(t *testing.T) {
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess_%d", n)
			store.Set(id, &models.Session{ID: id})
			store.Get(id)
			store.GetAll()
		}(i)
	}
	wg.Wait()

	if len(store.GetAll()) != 50 {
		t.Errorf("expected 50 sessions, got %d", len(store.GetAll()))
	}
}
