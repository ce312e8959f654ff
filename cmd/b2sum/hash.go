package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/dchest/pyblake2/internal/hasher"
	"github.com/dchest/pyblake2/internal/sumfile"
)

// hash prints one checksum line per input file, in the order given.
func hash(c *cli.Context, s *settings, names []string) error {
	results, err := hasher.Files(context.Background(), s.opts, names, s.jobs)
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			logrus.WithField("file", r.Name).Error(r.Err)
			failed++
			continue
		}
		if err := sumfile.Write(c.App.Writer, s.encoding, r.Sum, r.Name); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errFailed
	}
	return nil
}
