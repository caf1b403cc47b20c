package analysis

import (
	"testing"
	"time"
)

func TestResultCachePutGet(t *testing.T) {
	cache := NewResultCache(time.Hour)
	res := NeutralResult()

	cache.Put("fp", res)
	got := cache.Get("fp")
	if got != res {
		t.Fatalf("expected cached result back, got %v", got)
	}
}

func TestResultCacheMiss(t *testing.T) {
	cache := NewResultCache(time.Hour)
	if got := cache.Get("absent"); got != nil {
		t.Fatalf("expected nil on miss, got %v", got)
	}
}

func TestResultCacheLazyExpiry(t *testing.T) {
	cache := NewResultCache(time.Hour)
	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("fp", NeutralResult())

	// Just under the TTL the entry is still live.
	current = current.Add(time.Hour - time.Second)
	if cache.Get("fp") == nil {
		t.Fatal("entry expired before TTL")
	}

	// At the TTL boundary the entry must not be returned and is
	// removed on access.
	current = current.Add(time.Second)
	if cache.Get("fp") != nil {
		t.Fatal("entry returned at TTL boundary")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry not removed, len=%d", cache.Len())
	}
}

func TestResultCacheOverwrite(t *testing.T) {
	cache := NewResultCache(time.Hour)
	first := NeutralResult()
	second := NeutralResult()

	cache.Put("fp", first)
	cache.Put("fp", second)
	if got := cache.Get("fp"); got != second {
		t.Fatal("Put did not overwrite existing entry")
	}
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("The dragon slept on its hoard.")
	b := Fingerprint("The dragon slept on its hoard.")
	if a != b {
		t.Fatal("fingerprint not stable for identical text")
	}
	if a == Fingerprint("A completely different story.") {
		t.Fatal("fingerprint collision on different prefixes")
	}

	// Only the prefix participates, so a long tail change is ignored.
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	base := string(long)
	if Fingerprint(base) != Fingerprint(base[:150]+"bbbbb") {
		t.Fatal("fingerprint unexpectedly depends on text beyond the prefix")
	}
}
