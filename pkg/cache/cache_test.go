package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// exercise runs the behaviour every persistent backend shares.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "compile:a", []byte("15,0,0,0,0,???"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "compile:a")
	if err != nil || !hit || string(data) != "15,0,0,0,0,???" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Set(ctx, "compile:a", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "compile:a"); string(data) != "v2" {
		t.Errorf("after overwrite Get = %q", data)
	}
	if err := c.Delete(ctx, "compile:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "compile:a"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "compile:a"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}

	_ = c.Set(ctx, "x", []byte("1"), 0)
	_ = c.Set(ctx, "y", []byte("2"), 0)
	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"x", "y"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	exercise(t, c)

	entries, err := os.ReadDir(c.Dir())
	if err != nil || len(entries) != 0 {
		t.Errorf("cache dir after Clear = %v, %v", entries, err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v", hit, err)
	}
}

func TestRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+srv.Addr(), "cm2kit:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exercise(t, c)
}

func TestRedisCachePrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	c, err := NewRedisCache(ctx, "redis://"+srv.Addr(), "cm2kit:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_ = srv.Set("other", "keep")
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if got, _ := srv.Get("cm2kit:k"); got != "v" {
		t.Errorf("stored value = %q", got)
	}
	if ttl := srv.TTL("cm2kit:k"); ttl != time.Minute {
		t.Errorf("TTL = %v", ttl)
	}

	srv.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired key returned")
	}

	_ = c.Set(ctx, "k2", []byte("v"), 0)
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if !srv.Exists("other") {
		t.Error("Clear removed a key outside the prefix")
	}
}

func TestRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope", ""); err == nil {
		t.Error("expected error for non-redis URL")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("NullCache.Get = hit %v, err %v", hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if n := len(Hash(nil)); n != 64 {
		t.Errorf("Hash length should be 64, got %d", n)
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.CompileKey("toml", []byte("name = 'a'"))
	if !strings.HasPrefix(a, "compile:") || len(a) != len("compile:")+64 {
		t.Errorf("CompileKey = %q", a)
	}
	if a == k.CompileKey("yaml", []byte("name = 'a'")) {
		t.Error("format should change the key")
	}
	if a == k.CompileKey("toml", []byte("name = 'b'")) {
		t.Error("content should change the key")
	}
	if d := k.DecodeKey("???"); !strings.HasPrefix(d, "decode:") {
		t.Errorf("DecodeKey = %q", d)
	}

	scoped := NewScopedKeyer(nil, "user:1:")
	if got := scoped.CompileKey("toml", nil); got != "user:1:"+k.CompileKey("toml", nil) {
		t.Errorf("scoped CompileKey = %q", got)
	}
	if got := scoped.DecodeKey("s"); got != "user:1:"+k.DecodeKey("s") {
		t.Errorf("scoped DecodeKey = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return errors.New("fatal")
	})
	if err == nil || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 3 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := RetryWithBackoff(cctx, func() error { return Retryable(ErrNetwork) }); err != context.Canceled {
		t.Errorf("cancelled: err %v", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) != nil")
	}
	plain := errors.New("WRONGTYPE")
	if IsRetryable(classify(plain)) {
		t.Error("plain errors are not retryable")
	}
	timeout := &timeoutErr{}
	if err := classify(timeout); !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("classify(timeout) = %v", err)
	}
}

type timeoutErr struct{}

func (*timeoutErr) Error() string   { return "i/o timeout" }
func (*timeoutErr) Timeout() bool   { return true }
func (*timeoutErr) Temporary() bool { return true }
