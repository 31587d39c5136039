// Package output decides where each converted file is written: the base
// directory from the placement mode, the base name from template or suffix,
// and the final path from the collision policy.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"audioconv/config"
	"audioconv/internal/timeutil"
	"audioconv/models"
)

// ErrSequenceExhausted is returned when a probe limit is set and every
// numbered candidate up to it already exists.
var ErrSequenceExhausted = errors.New("no free sequence number for output")

// Target is the resolved destination for one input.
type Target struct {
	Dir  string
	Path string
	// Skip is set when the collision policy is skip and Path already exists
	// or belongs to another task of the batch. Path then names that file.
	Skip bool
}

// Resolver resolves output targets for one batch. It is safe for concurrent
// use. Every path it hands out is claimed for the task that asked for it, so
// no two tasks of the batch ever write the same file.
type Resolver struct {
	cfg      *config.Config
	format   models.Format
	now      func() time.Time
	exists   func(path string) bool
	maxProbe int

	mu      sync.Mutex
	claimed map[string]int // output path -> task index that owns it
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithClock sets the time source for the {date} token.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithExists replaces the filesystem existence check.
func WithExists(exists func(path string) bool) Option {
	return func(r *Resolver) { r.exists = exists }
}

// WithMaxProbe bounds the sequence probe. Zero means unbounded.
func WithMaxProbe(n int) Option {
	return func(r *Resolver) { r.maxProbe = n }
}

// NewResolver returns a resolver for cfg. cfg must not change afterwards.
func NewResolver(cfg *config.Config, opts ...Option) (*Resolver, error) {
	format, err := models.LookupFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		cfg:    cfg,
		format: format,
		now:     time.Now,
		exists:  pathExists,
		claimed: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dir returns the base output directory for input. An empty subdirectory
// name falls back to the input's own directory.
func (r *Resolver) Dir(input string) string {
	out := r.cfg.Output
	switch out.Placement {
	case config.PlacementDir:
		return strings.TrimSpace(out.Dir)
	case config.PlacementSubdir:
		name := strings.TrimSpace(out.Subdir)
		if name == "" {
			return filepath.Dir(input)
		}
		return filepath.Join(filepath.Dir(input), name)
	default:
		return filepath.Dir(input)
	}
}

// EnsureDir creates the base output directory for input, with parents, and
// returns it. Concurrent calls for the same directory are harmless.
func (r *Resolver) EnsureDir(input string) (string, error) {
	dir := r.Dir(input)
	if dir == "" {
		return "", fmt.Errorf("no output directory for %s", input)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// BaseName returns the output file name without extension for the index-th
// (1-based) input. A template replaces the name entirely; otherwise the
// suffix is appended to the input's stem.
func (r *Resolver) BaseName(input string, index int) string {
	stem := Stem(input)

	if tmpl := strings.TrimSpace(r.cfg.Naming.Template); tmpl != "" {
		return strings.NewReplacer(
			"{name}", stem,
			"{ext}", r.format.Extension,
			"{date}", timeutil.DateStamp(r.now()),
			"{n}", strconv.Itoa(index),
		).Replace(tmpl)
	}

	return stem + strings.TrimSpace(r.cfg.Naming.Suffix)
}

// Resolve creates the output directory for input and applies the collision
// policy to `{dir}/{base}.{ext}`.
//
// Paths already claimed by another task of the batch count as existing for
// skip and sequence. Under overwrite they are never replaced; the task gets
// the next free numbered name instead.
func (r *Resolver) Resolve(input string, index int) (Target, error) {
	dir, err := r.EnsureDir(input)
	if err != nil {
		return Target{}, err
	}

	candidate := filepath.Join(dir, r.BaseName(input, index)+"."+r.format.Extension)

	r.mu.Lock()
	defer r.mu.Unlock()

	taken := func(path string) bool {
		return r.claimedByOther(path, index) || r.exists(path)
	}

	path := candidate
	switch r.cfg.Overwrite {
	case config.OverwriteSkip:
		if taken(candidate) {
			return Target{Dir: dir, Path: candidate, Skip: true}, nil
		}
	case config.OverwriteSequence:
		path, err = r.nextFree(candidate, taken)
		if err != nil {
			return Target{}, err
		}
	default:
		if r.claimedByOther(candidate, index) {
			path, err = r.nextFree(candidate, func(p string) bool { return r.claimedByOther(p, index) })
			if err != nil {
				return Target{}, err
			}
		}
	}

	r.claimed[path] = index
	return Target{Dir: dir, Path: path}, nil
}

// claimedByOther reports whether path was handed to a task other than index.
// Callers hold r.mu.
func (r *Resolver) claimedByOther(path string, index int) bool {
	owner, ok := r.claimed[path]
	return ok && owner != index
}

// nextFree returns candidate if it is not taken, otherwise the first free
// `{base}_{i}{ext}` for i = 1, 2, ...
func (r *Resolver) nextFree(candidate string, taken func(path string) bool) (string, error) {
	if !taken(candidate) {
		return candidate, nil
	}
	ext := filepath.Ext(candidate)
	base := strings.TrimSuffix(candidate, ext)
	for i := 1; r.maxProbe <= 0 || i <= r.maxProbe; i++ {
		next := base + "_" + strconv.Itoa(i) + ext
		if !taken(next) {
			return next, nil
		}
	}
	return "", fmt.Errorf("%w: %s (tried %d)", ErrSequenceExhausted, candidate, r.maxProbe)
}

// Stem returns the file name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
