package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/dchest/pyblake2/internal/hasher"
	"github.com/dchest/pyblake2/internal/sumfile"
)

type verdict struct {
	entry sumfile.Entry
	ok    bool
	err   error
}

func readSumFile(name string) ([]sumfile.Entry, error) {
	var r io.Reader = os.Stdin
	if name != hasher.Stdin {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return sumfile.Parse(r)
}

// verify rehashes the file named by e. Without an explicit size, the digest
// length is taken from the recorded checksum.
func verify(ctx context.Context, s *settings, e sumfile.Entry) (bool, error) {
	opts := *s.opts
	if !s.sizeSet {
		opts.Size = len(e.Sum)
	}

	sum, err := hasher.File(ctx, &opts, e.Name)
	if err != nil {
		return false, err
	}
	return bytes.Equal(sum, e.Sum), nil
}

// check reads checksum lists and reports OK or FAILED for every entry.
func check(c *cli.Context, s *settings, lists []string) error {
	var failed int

	for _, list := range lists {
		entries, err := readSumFile(list)
		if err != nil {
			logrus.WithField("file", list).Error(err)
			failed++
			continue
		}

		verdicts := make([]verdict, len(entries))
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(s.jobs)
		for i, e := range entries {
			g.Go(func() error {
				ok, err := verify(ctx, s, e)
				verdicts[i] = verdict{entry: e, ok: ok, err: err}
				return nil
			})
		}
		g.Wait()

		for _, v := range verdicts {
			status := "OK"
			if v.err != nil {
				logrus.WithFields(logrus.Fields{
					"file": v.entry.Name,
					"list": list,
					"line": v.entry.Line,
				}).Error(v.err)
				status = "FAILED open or read"
			} else if !v.ok {
				status = "FAILED"
			}
			if status != "OK" {
				failed++
			}
			if _, err := fmt.Fprintf(c.App.Writer, "%s: %s\n", v.entry.Name, status); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		logrus.Warnf("%d checksum(s) did not match or could not be read", failed)
		return errFailed
	}
	return nil
}
