package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/errors"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"adder", true},
		{"ff1.v2", true},
		{"Decoder_7-bit", true},
		{"", false},
		{".hidden", false},
		{"../etc/passwd", false},
		{"a/b", false},
		{"with space", false},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.ok && err != nil {
			t.Errorf("ValidateName(%q) = %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want INVALID_NAME", tt.name, err)
		}
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "artifacts")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.Put(ctx, Artifact{Name: "main", Savestring: "15,0,0,0,0,???", CreatedAt: created}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, Artifact{Name: "adder", Savestring: "???"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	a, err := s.Get(ctx, "main")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Savestring != "15,0,0,0,0,???" || a.Hash != cache.Hash([]byte(a.Savestring)) || !a.CreatedAt.Equal(created) {
		t.Errorf("Get = %+v", a)
	}

	if err := s.Put(ctx, Artifact{Name: "main", Savestring: "???"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if a, _ := s.Get(ctx, "main"); a.Savestring != "???" {
		t.Errorf("overwrite not visible: %q", a.Savestring)
	}

	// Stray files are not artifacts.
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "adder" || list[1].Name != "main" {
		t.Errorf("List = %+v", list)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(missing) = %v, want NOT_FOUND", err)
	}
	if err := s.Put(ctx, Artifact{Name: "../x"}); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("Put(../x) = %v, want INVALID_NAME", err)
	}
}

func TestNewMongoStoreBadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := NewMongoStore(ctx, "not-a-mongo-uri", "", ""); err == nil {
		t.Error("expected error for malformed URI")
	}
}
