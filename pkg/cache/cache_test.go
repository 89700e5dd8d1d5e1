package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get(k) = %q, %v, %v; want payload, true, nil", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() after Delete() = hit, want miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	if err := c.Set(ctx, "k", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry not removed: %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	p := c.path("k")
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = hit %v, err %v; want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("Clear() left %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := ResultKeyOpts{Class: "lakes", Scale: 50000, Thresholds: map[string]float64{"min_area": 1}}
	rk := k.ResultKey("abc", base)
	if !strings.HasPrefix(rk, "result:") || len(rk) != len("result:")+64 {
		t.Errorf("ResultKey() = %q, want result:<sha256>", rk)
	}
	if rk != k.ResultKey("abc", base) {
		t.Error("ResultKey() not deterministic")
	}

	variants := []ResultKeyOpts{
		{Class: "seas", Scale: 50000, Thresholds: base.Thresholds},
		{Class: "lakes", Scale: 25000, Thresholds: base.Thresholds},
		{Class: "lakes", Scale: 50000, Thresholds: map[string]float64{"min_area": 2}},
		{Class: "lakes", Scale: 50000, Thresholds: base.Thresholds, Outlets: []string{"0,0"}},
	}
	for _, v := range variants {
		if k.ResultKey("abc", v) == rk {
			t.Errorf("ResultKey(%+v) collides with base key", v)
		}
	}
	if k.ResultKey("abd", base) == rk {
		t.Error("different input hashes produce the same key")
	}

	n1 := k.NetworkKey("abc", NetworkKeyOpts{Class: "roads", Format: "dot"})
	n2 := k.NetworkKey("abc", NetworkKeyOpts{Class: "roads", Format: "svg"})
	if n1 == n2 || !strings.HasPrefix(n1, "network:") {
		t.Errorf("NetworkKey() = %q, %q; want distinct network: keys", n1, n2)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:")
	opts := ResultKeyOpts{Class: "roads", Scale: 100000}

	if got, want := scoped.ResultKey("h", opts), "proj:"+inner.ResultKey("h", opts); got != want {
		t.Errorf("ResultKey() = %q, want %q", got, want)
	}
	nopts := NetworkKeyOpts{Class: "roads", Format: "svg"}
	if got, want := scoped.NetworkKey("h", nopts), "proj:"+inner.NetworkKey("h", nopts); got != want {
		t.Errorf("NetworkKey() = %q, want %q", got, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.ResultKey("h", ResultKeyOpts{}); !strings.HasPrefix(key, "prefix:result:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
