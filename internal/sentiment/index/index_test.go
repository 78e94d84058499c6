package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/tickerlens/tickerlens/internal/common"
	"github.com/tickerlens/tickerlens/internal/sentiment"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), common.GetLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	title := "Shares surge after earnings beat"
	if err := store.Put(title, "https://example.com/a", "Big beat", sentiment.Positive); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := store.Get(Key(title))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Title != title {
		t.Errorf("title = %q, want %q", entry.Title, title)
	}
	if entry.Sentiment != sentiment.Positive {
		t.Errorf("sentiment = %s, want positive", entry.Sentiment)
	}
	if entry.URL != "https://example.com/a" {
		t.Errorf("url = %q", entry.URL)
	}
	if entry.StoredAt.IsZero() {
		t.Error("stored_at not set")
	}
}

func TestPutOverwritesSameKey(t *testing.T) {
	store := openTestStore(t)

	title := "Company issues warning"
	if err := store.Put(title, "https://example.com/1", "old", sentiment.Neutral); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(title, "https://example.com/2", "new", sentiment.Negative); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, err := store.Get(Key(title))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Summary != "new" || entry.Sentiment != sentiment.Negative {
		t.Errorf("last write did not win: %+v", entry)
	}
}

func TestConcurrentPuts(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("headline %d", i)
			if err := store.Put(title, "https://example.com", "summary", sentiment.Neutral); err != nil {
				t.Errorf("Put(%d): %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		title := fmt.Sprintf("headline %d", i)
		if _, err := store.Get(Key(title)); err != nil {
			t.Errorf("Get(%q): %v", title, err)
		}
	}
}
