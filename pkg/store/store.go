// Package store persists compiled savestrings under a name.
//
// [FileStore] keeps one .cm2 file per artifact in a directory; [MongoStore]
// keeps one document per artifact in a MongoDB collection. Both overwrite an
// existing artifact of the same name.
package store

import (
	"context"
	"regexp"
	"time"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// Artifact is a stored savestring.
type Artifact struct {
	Name       string    `json:"name" bson:"_id"`
	Savestring string    `json:"savestring" bson:"savestring"`
	Hash       string    `json:"hash" bson:"hash"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Store is implemented by artifact backends. Get returns a NOT_FOUND error
// for unknown names.
type Store interface {
	Put(ctx context.Context, a Artifact) error
	Get(ctx context.Context, name string) (*Artifact, error)
	List(ctx context.Context) ([]Artifact, error)
	Close() error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName rejects names that are empty, too long, or not safe as a
// file name.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return errors.New(errors.ErrCodeInvalidName, "invalid artifact name %q", name)
	}
	return nil
}
