package cache

import (
	"testing"
	"time"
)

func TestSummaryKey_SensitiveToText(t *testing.T) {
	a := SummaryKey("t1", "some transcript text")
	b := SummaryKey("t1", "some transcript text")
	c := SummaryKey("t1", "different text")
	d := SummaryKey("t2", "some transcript text")

	if a != b {
		t.Error("same inputs must produce the same key")
	}
	if a == c || a == d {
		t.Error("different inputs must produce different keys")
	}
}

func TestBaselineKey_PinnedToWindowHead(t *testing.T) {
	a := BaselineKey("ch1", 4, "head1")
	b := BaselineKey("ch1", 4, "head1")
	if a != b {
		t.Error("same window must produce the same key")
	}
	if a == BaselineKey("ch1", 4, "head2") {
		t.Error("new window head must change the key")
	}
	if a == BaselineKey("ch1", 8, "head1") {
		t.Error("window size must change the key")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("round trip failed: %q %v", got, ok)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("key survived delete")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("payload"), 0); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "payload" {
		t.Errorf("round trip failed: %q %v", got, ok)
	}

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("key survived clear")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry served")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	// A fresh layered cache over the same directory only has the disk copy.
	fresh := NewLayeredCache(time.Minute, dir, time.Minute)
	got, ok := fresh.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("disk fallback failed: %q %v", got, ok)
	}
	// Second read should be served from memory after promotion.
	if _, ok := fresh.Get("k"); !ok {
		t.Error("promoted entry missing")
	}
}
