package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/circuit"
	"github.com/matzehuels/cm2kit/pkg/errors"
	cmio "github.com/matzehuels/cm2kit/pkg/io"
	"github.com/matzehuels/cm2kit/pkg/manifest"
	"github.com/matzehuels/cm2kit/pkg/observability"
	"github.com/matzehuels/cm2kit/pkg/savestring"
)

// Runner executes the pipeline against a cache.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means [cache.DefaultKeyer]; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Build parses src and resolves it into a module without touching the cache.
func (r *Runner) Build(ctx context.Context, src []byte, format manifest.Format) (*circuit.Module, error) {
	hooks := observability.Pipeline()

	hooks.OnParseStart(ctx, string(format))
	start := time.Now()
	man, err := manifest.Parse(src, format)
	hooks.OnParseComplete(ctx, string(format), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hooks.OnBuildStart(ctx, man.Name)
	start = time.Now()
	m, err := man.Build()
	if err != nil {
		hooks.OnBuildComplete(ctx, man.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, man.Name, m.BlockCount(), m.WireCount(), time.Since(start), nil)

	r.Logger.Debug("built module",
		"name", m.Name(),
		"blocks", m.BlockCount(),
		"wires", m.WireCount(),
		"duration", time.Since(start))
	return m, nil
}

// Compile turns a manifest into a savestring, consulting the cache first.
func (r *Runner) Compile(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	key := r.Keyer.CompileKey(string(opts.Format), src)

	if !opts.Refresh {
		if res, ok := r.cached(ctx, key); ok {
			r.Logger.Info("compiled module", "name", res.Name, "blocks", res.Stats.Blocks, "cached", true)
			return res, nil
		}
	}

	m, err := r.Build(ctx, src, opts.Format)
	if err != nil {
		return nil, err
	}

	encStart := time.Now()
	s, err := savestring.Encode(m)
	observability.Pipeline().OnEncodeComplete(ctx, m.Name(), len(s), time.Since(encStart), err)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Name:       m.Name(),
		Savestring: s,
		Hash:       cache.Hash([]byte(s)),
		Stats: Stats{
			Blocks:    m.BlockCount(),
			Wires:     m.WireCount(),
			Buildings: len(m.Buildings()),
			Duration:  time.Since(start),
		},
	}
	r.store(ctx, key, "compile", res, opts.TTL)

	r.Logger.Info("compiled module",
		"name", res.Name,
		"blocks", res.Stats.Blocks,
		"wires", res.Stats.Wires,
		"duration", res.Stats.Duration)
	return res, nil
}

// Decode parses a savestring into a module. Decoded names are random, so the
// decoded graph is cached to keep them stable for repeated requests.
func (r *Runner) Decode(ctx context.Context, s string) (*circuit.Module, error) {
	start := time.Now()
	key := r.Keyer.DecodeKey(s)

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		m, err := cmio.ReadJSON(bytes.NewReader(data))
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "decode")
			return m, nil
		}
		r.Logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "decode")

	m, err := savestring.Decode(s)
	if err != nil {
		observability.Pipeline().OnDecodeComplete(ctx, len(s), 0, time.Since(start), err)
		return nil, err
	}
	observability.Pipeline().OnDecodeComplete(ctx, len(s), m.BlockCount(), time.Since(start), nil)

	var buf bytes.Buffer
	if err := cmio.WriteJSON(m, &buf); err == nil {
		r.set(ctx, key, "decode", buf.Bytes(), DefaultDecodeTTL)
	}

	r.Logger.Info("decoded savestring",
		"blocks", m.BlockCount(),
		"wires", m.WireCount(),
		"buildings", len(m.Buildings()),
		"duration", time.Since(start))
	return m, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "compile")
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "compile")
	res.CacheHit = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, res *Result, ttl time.Duration) {
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Warn("cache encode failed", "err", errors.Wrap(errors.ErrCodeInternal, err, "marshal result"))
		return
	}
	r.set(ctx, key, keyType, data, ttl)
}

// set stores data, logging failures. A broken cache never fails a request.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache store failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
