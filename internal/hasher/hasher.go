// Package hasher hashes files and streams with either BLAKE2 variant.
package hasher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	blake2 "github.com/dchest/pyblake2"
	"github.com/dchest/pyblake2/blake2b"
	"github.com/dchest/pyblake2/blake2s"
	"github.com/dchest/pyblake2/internal/config"
)

// Stdin is the name that makes File read standard input.
const Stdin = "-"

const chunkSize = 64 * 1024

// Options selects the algorithm and its parameters. The zero Fanout and
// Depth are not sequential mode; use DefaultOptions as a starting point.
type Options struct {
	Algorithm string
	Size      int // 0 selects the algorithm's maximum
	Key       []byte
	Salt      []byte
	Person    []byte

	Fanout     int
	Depth      int
	LeafSize   uint32
	NodeOffset uint64
	NodeDepth  int
	InnerSize  int
	LastNode   bool
}

// DefaultOptions returns sequential-mode options for algorithm.
func DefaultOptions(algorithm string) *Options {
	return &Options{Algorithm: algorithm, Fanout: 1, Depth: 1}
}

// New builds a fresh hash from o.
func New(o *Options) (blake2.Hash, error) {
	switch o.Algorithm {
	case config.AlgorithmBLAKE2b:
		size := o.Size
		if size == 0 {
			size = blake2b.MaxOutput
		}
		return blake2b.New(&blake2b.Config{
			Size:   size,
			Key:    o.Key,
			Salt:   o.Salt,
			Person: o.Person,
			Tree: &blake2b.Tree{
				Fanout:     o.Fanout,
				MaxDepth:   o.Depth,
				LeafSize:   o.LeafSize,
				NodeOffset: o.NodeOffset,
				NodeDepth:  o.NodeDepth,
				InnerSize:  o.InnerSize,
				IsLastNode: o.LastNode,
			},
		})
	case config.AlgorithmBLAKE2s:
		size := o.Size
		if size == 0 {
			size = blake2s.MaxOutput
		}
		return blake2s.New(&blake2s.Config{
			Size:   size,
			Key:    o.Key,
			Salt:   o.Salt,
			Person: o.Person,
			Tree: &blake2s.Tree{
				Fanout:     o.Fanout,
				MaxDepth:   o.Depth,
				LeafSize:   o.LeafSize,
				NodeOffset: o.NodeOffset,
				NodeDepth:  o.NodeDepth,
				InnerSize:  o.InnerSize,
				IsLastNode: o.LastNode,
			},
		})
	default:
		return nil, fmt.Errorf("hasher: unknown algorithm %q", o.Algorithm)
	}
}

// Reader hashes everything read from r. Cancellation is checked between
// chunks; a cancelled hash is abandoned, never resumed.
func Reader(ctx context.Context, o *Options, r io.Reader) ([]byte, error) {
	h, err := New(o)
	if err != nil {
		return nil, err
	}
	defer h.Wipe()

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := r.Read(buf)
		h.Write(buf[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

// File hashes the named file, or standard input for Stdin.
func File(ctx context.Context, o *Options, name string) ([]byte, error) {
	if name == Stdin {
		return Reader(ctx, o, os.Stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Reader(ctx, o, f)
}

// Result is the outcome of hashing one file.
type Result struct {
	Name string
	Sum  []byte
	Err  error
}

// Expand replaces each directory in names with the regular files below it,
// in lexical order. Walk errors become failed results.
func Expand(names []string) []Result {
	var results []Result
	for _, name := range names {
		if name == Stdin {
			results = append(results, Result{Name: name})
			continue
		}

		err := filepath.WalkDir(name, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			// Named files are kept whatever their type; walked ones must be regular.
			if !d.IsDir() && (path == name || d.Type().IsRegular()) {
				results = append(results, Result{Name: path})
			}
			return nil
		})
		if err != nil {
			results = append(results, Result{Name: name, Err: err})
		}
	}
	return results
}

// Files hashes every file named in names, expanding directories, with at most
// jobs files in flight. Each file gets its own hash state. Per-file failures
// are reported in the results; the returned error is set only if ctx ends.
func Files(ctx context.Context, o *Options, names []string, jobs int) ([]Result, error) {
	results := Expand(names)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			r := &results[i]
			r.Sum, r.Err = File(ctx, o, r.Name)
			if err := ctx.Err(); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"file":      r.Name,
				"algorithm": o.Algorithm,
			}).Debug("hashed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
