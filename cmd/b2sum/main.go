// Command b2sum prints or checks BLAKE2b and BLAKE2s checksums.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/dchest/pyblake2/internal/config"
	"github.com/dchest/pyblake2/internal/hasher"
	"github.com/dchest/pyblake2/internal/sumfile"
)

// BuildVersion is set at link time.
var BuildVersion = "dev"

// errFailed reports that at least one file could not be hashed or verified.
// The details have already been logged.
var errFailed = errors.New("one or more files failed")

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		if !errors.Is(err, errFailed) {
			logrus.Error(err)
		}
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "b2sum"
	app.Usage = "print or check BLAKE2 checksums"
	app.UsageText = "b2sum [options] [FILE...]"
	app.Version = BuildVersion
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "config file (yaml, json or toml)",
		},
		cli.StringFlag{
			Name:  "algorithm,a",
			Usage: "blake2b or blake2s",
		},
		cli.IntFlag{
			Name:  "size,s",
			Usage: "digest size in bytes (default: the algorithm's maximum)",
		},
		cli.StringFlag{
			Name:   "key",
			Usage:  "hex key for keyed hashing",
			EnvVar: config.EnvPrefix + "_KEY",
		},
		cli.StringFlag{
			Name:  "salt",
			Usage: "hex salt",
		},
		cli.StringFlag{
			Name:  "person",
			Usage: "hex personalization string",
		},
		cli.IntFlag{
			Name:  "fanout",
			Usage: "tree fanout (0 is unlimited)",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "maximal tree depth",
			Value: 1,
		},
		cli.Uint64Flag{
			Name:  "leaf-size",
			Usage: "tree leaf size in bytes",
		},
		cli.Uint64Flag{
			Name:  "node-offset",
			Usage: "tree node offset",
		},
		cli.IntFlag{
			Name:  "node-depth",
			Usage: "tree node depth",
		},
		cli.IntFlag{
			Name:  "inner-size",
			Usage: "tree inner hash size in bytes",
		},
		cli.BoolFlag{
			Name:  "last-node",
			Usage: "mark the hash as the last node of its level",
		},
		cli.IntFlag{
			Name:  "jobs,j",
			Usage: "number of files hashed concurrently",
		},
		cli.BoolFlag{
			Name:  "base64",
			Usage: "print digests in base64 instead of hex",
		},
		cli.BoolFlag{
			Name:  "check,c",
			Usage: "read checksums from the FILEs and check them",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "log each file as it is processed",
		},
	}
	app.Before = initLogging
	app.Action = start
	return app
}

func initLogging(c *cli.Context) error {
	logrus.SetOutput(c.App.ErrWriter)
	if c.Bool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}

// settings is the merged result of the config file, the environment and the
// command line.
type settings struct {
	opts     *hasher.Options
	jobs     int
	encoding sumfile.Encoding
	sizeSet  bool
}

func loadSettings(c *cli.Context) (*settings, error) {
	cfg, err := config.Load(config.New(), c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("algorithm") {
		cfg.Algorithm = c.String("algorithm")
	}
	if c.IsSet("size") {
		cfg.Size = c.Int("size")
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if c.Bool("base64") {
		cfg.Encoding = config.EncodingBase64
	}
	if c.IsSet("person") {
		cfg.Person = c.String("person")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{
		jobs:    cfg.Jobs,
		sizeSet: cfg.Size != 0,
		opts: &hasher.Options{
			Algorithm:  cfg.Algorithm,
			Size:       cfg.Size,
			Fanout:     c.Int("fanout"),
			Depth:      c.Int("depth"),
			NodeOffset: c.Uint64("node-offset"),
			NodeDepth:  c.Int("node-depth"),
			InnerSize:  c.Int("inner-size"),
			LastNode:   c.Bool("last-node"),
		},
	}
	if cfg.Encoding == config.EncodingBase64 {
		s.encoding = sumfile.Base64
	}

	leaf := c.Uint64("leaf-size")
	if leaf > 1<<32-1 {
		return nil, fmt.Errorf("leaf size %d does not fit in 32 bits", leaf)
	}
	s.opts.LeafSize = uint32(leaf)

	for _, f := range []struct {
		name string
		val  string
		dst  *[]byte
	}{
		{"key", c.String("key"), &s.opts.Key},
		{"salt", c.String("salt"), &s.opts.Salt},
		{"person", cfg.Person, &s.opts.Person},
	} {
		b, err := hex.DecodeString(f.val)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", f.name, err)
		}
		if len(b) > 0 {
			*f.dst = b
		}
	}

	// Reject bad parameters before touching any file.
	h, err := hasher.New(s.opts)
	if err != nil {
		return nil, err
	}
	h.Wipe()

	return s, nil
}

func start(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	names := []string(c.Args())
	if len(names) == 0 {
		names = []string{hasher.Stdin}
	}

	logrus.WithFields(logrus.Fields{
		"algorithm": s.opts.Algorithm,
		"size":      s.opts.Size,
		"jobs":      s.jobs,
		"keyed":     len(s.opts.Key) > 0,
	}).Debug("starting")

	if c.Bool("check") {
		return check(c, s, names)
	}
	return hash(c, s, names)
}
