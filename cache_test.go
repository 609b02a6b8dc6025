package depsolve

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTestcaseCachePutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenTestcaseCache(path)
	if err != nil {
		t.Fatalf("OpenTestcaseCache: %v", err)
	}
	defer c.Close()

	raw := []byte(sampleTestcase)
	key := Key(raw)

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("expected miss before Put, got ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, raw); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected hit after Put, got ok=%v err=%v", ok, err)
	}
	if string(got) != string(raw) {
		t.Fatalf("cached bytes mismatch")
	}
}

func TestKeyIsContentAddressed(t *testing.T) {
	a := Key([]byte("same bytes"))
	b := Key([]byte("same bytes"))
	c := Key([]byte("different bytes"))
	if a != b {
		t.Fatalf("expected identical bytes to hash to the same key")
	}
	if a == c {
		t.Fatalf("expected different bytes to hash to different keys")
	}
}

func TestLoadTestcaseFetchesOnceAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenTestcaseCache(path)
	if err != nil {
		t.Fatalf("OpenTestcaseCache: %v", err)
	}
	defer c.Close()

	fetches := 0
	fetch := func() ([]byte, error) {
		fetches++
		return []byte(sampleTestcase), nil
	}

	tc, err := LoadTestcase(c, fetch)
	if err != nil {
		t.Fatalf("LoadTestcase: %v", err)
	}
	if len(tc.Jobs) != 1 {
		t.Fatalf("expected parsed testcase to carry 1 job, got %d", len(tc.Jobs))
	}
	if fetches != 1 {
		t.Fatalf("expected exactly 1 fetch, got %d", fetches)
	}

	key := Key([]byte(sampleTestcase))
	cached, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected LoadTestcase to have populated the cache")
	}
	if !strings.Contains(string(cached), "job install name A") {
		t.Fatalf("cached bytes don't match fixture content")
	}
}
