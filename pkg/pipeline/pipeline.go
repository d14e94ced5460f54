// Package pipeline runs the manifest → module → savestring compilation
// shared by the CLI and the HTTP service.
//
// # Stages
//
//  1. Parse: decode a TOML or YAML manifest ([manifest.Parse])
//  2. Build: resolve the manifest into a [circuit.Module]
//  3. Encode: serialize the module to a savestring
//
// Compiled savestrings are cached by manifest content, so repeated builds of
// an unchanged manifest skip all three stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Compile(ctx, src, pipeline.Options{Format: manifest.FormatTOML})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Savestring)
package pipeline

import (
	"time"

	"github.com/matzehuels/cm2kit/pkg/errors"
	"github.com/matzehuels/cm2kit/pkg/manifest"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is used when Options.Format is empty.
	DefaultFormat = manifest.FormatTOML

	// DefaultTTL is how long compiled savestrings stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultDecodeTTL is how long decoded graphs stay cached.
	DefaultDecodeTTL = 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options configures a compile run.
type Options struct {
	// Format is the manifest encoding. Empty means [DefaultFormat].
	Format manifest.Format `json:"format,omitempty"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides [DefaultTTL] for the stored result.
	TTL time.Duration `json:"-"`
}

// ValidateAndSetDefaults fills empty fields and rejects unknown formats.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if _, err := manifest.ParseFormat(string(o.Format)); err != nil {
		return err
	}
	if o.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "negative cache ttl %s", o.TTL)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of [Runner.Compile].
type Result struct {
	Name       string `json:"name"`
	Savestring string `json:"savestring"`
	// Hash is the SHA-256 of Savestring.
	Hash     string `json:"hash"`
	Stats    Stats  `json:"stats"`
	CacheHit bool   `json:"cache_hit"`
}

// Stats describes the compiled module.
type Stats struct {
	Blocks    int           `json:"blocks"`
	Wires     int           `json:"wires"`
	Buildings int           `json:"buildings"`
	Duration  time.Duration `json:"duration_ns"`
}
