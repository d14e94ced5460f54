package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/manifest"
	"github.com/matzehuels/cm2kit/pkg/observability"
	"github.com/matzehuels/cm2kit/pkg/savestring"
)

const blinkTOML = `
name = "blink"

[[blocks]]
name = "in"
kind = "node"

[[blocks]]
name = "out"
kind = "led"
pos = [0, 0, -1]

[[wires]]
src = "in"
dst = "out"
`

const blinkSave = "15,0,0,0,0,;6,0,0,0,-1,?1,2??"

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Format != DefaultFormat || o.TTL != DefaultTTL {
		t.Errorf("defaults = %+v", o)
	}
	again := o
	if err := again.ValidateAndSetDefaults(); err != nil || again != o {
		t.Errorf("not idempotent: %+v, %v", again, err)
	}

	bad := Options{Format: "xml"}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("xml format error = %v", err)
	}
	neg := Options{TTL: -time.Second}
	if err := neg.ValidateAndSetDefaults(); err == nil {
		t.Error("expected error for negative ttl")
	}
}

func TestCompileUncached(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	res, err := r.Compile(context.Background(), []byte(blinkTOML), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Name != "blink" || res.Savestring != blinkSave || res.CacheHit {
		t.Errorf("result = %+v", res)
	}
	if res.Hash != cache.Hash([]byte(blinkSave)) {
		t.Errorf("Hash = %s", res.Hash)
	}
	if res.Stats.Blocks != 2 || res.Stats.Wires != 1 || res.Stats.Buildings != 0 {
		t.Errorf("Stats = %+v", res.Stats)
	}

	again, _ := r.Compile(context.Background(), []byte(blinkTOML), Options{})
	if again.CacheHit {
		t.Error("null cache reported a hit")
	}
}

func TestCompileCached(t *testing.T) {
	fc, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	srv := miniredis.RunT(t)
	rc, err := cache.NewRedisCache(context.Background(), "redis://"+srv.Addr(), "test:")
	if err != nil {
		t.Fatal(err)
	}

	for name, c := range map[string]cache.Cache{"file": fc, "redis": rc} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := NewRunner(c, nil, quietLogger())
			defer r.Close()

			first, err := r.Compile(ctx, []byte(blinkTOML), Options{})
			if err != nil || first.CacheHit {
				t.Fatalf("first = %+v, %v", first, err)
			}
			second, err := r.Compile(ctx, []byte(blinkTOML), Options{})
			if err != nil || !second.CacheHit {
				t.Fatalf("second = %+v, %v", second, err)
			}
			if second.Savestring != first.Savestring || second.Stats.Blocks != 2 {
				t.Errorf("cached result = %+v", second)
			}

			refreshed, _ := r.Compile(ctx, []byte(blinkTOML), Options{Refresh: true})
			if refreshed.CacheHit {
				t.Error("Refresh returned a cached result")
			}
		})
	}
}

func TestCompileCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, quietLogger())

	key := r.Keyer.CompileKey(string(DefaultFormat), []byte(blinkTOML))
	_ = c.Set(ctx, key, []byte("{not json"), 0)

	res, err := r.Compile(ctx, []byte(blinkTOML), Options{})
	if err != nil || res.CacheHit || res.Savestring != blinkSave {
		t.Errorf("Compile over corrupt entry = %+v, %v", res, err)
	}
}

func TestCompileErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{"Syntax", "name = ", errors.ErrCodeInvalidManifest},
		{"UnknownKind", "[[blocks]]\nname = \"a\"\nkind = \"lamp\"\n", errors.ErrCodeUnknownKind},
		{"Dangling", "[[wires]]\nsrc = \"a\"\ndst = \"b\"\n", errors.ErrCodeUnresolvedReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Compile(context.Background(), []byte(tt.src), Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Build(ctx, []byte(blinkTOML), manifest.FormatTOML); err != context.Canceled {
		t.Errorf("Build error = %v, want context.Canceled", err)
	}
}

func TestDecodeStableNames(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, quietLogger())

	a, err := r.Decode(ctx, blinkSave)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := r.Decode(ctx, blinkSave)
	if err != nil {
		t.Fatalf("Decode (cached): %v", err)
	}
	if a.Blocks()[0].Name != b.Blocks()[0].Name {
		t.Errorf("names differ across cached decodes: %q vs %q", a.Blocks()[0].Name, b.Blocks()[0].Name)
	}
	if s, _ := savestring.Encode(b); s != blinkSave {
		t.Errorf("re-encoded = %q", s)
	}

	if _, err := r.Decode(ctx, "nonsense"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Decode(nonsense) = %v", err)
	}
}

type recorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recorder) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recorder) OnParseStart(context.Context, string) { h.add("parse") }
func (h *recorder) OnBuildComplete(_ context.Context, _ string, blocks, wires int, _ time.Duration, _ error) {
	h.add("build")
}
func (h *recorder) OnEncodeComplete(context.Context, string, int, time.Duration, error) {
	h.add("encode")
}
func (h *recorder) OnCacheHit(_ context.Context, keyType string)         { h.add("hit:" + keyType) }
func (h *recorder) OnCacheMiss(_ context.Context, keyType string)        { h.add("miss:" + keyType) }
func (h *recorder) OnCacheSet(_ context.Context, keyType string, _ int) { h.add("set:" + keyType) }

func TestHooks(t *testing.T) {
	h := &recorder{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	c, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	_, _ = r.Compile(ctx, []byte(blinkTOML), Options{})
	_, _ = r.Compile(ctx, []byte(blinkTOML), Options{})

	want := []string{"miss:compile", "parse", "build", "encode", "set:compile", "hit:compile"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, h.events[i], want[i])
		}
	}
}
