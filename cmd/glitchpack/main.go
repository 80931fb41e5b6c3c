package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/klaim/glitchpack"
	"github.com/klaim/glitchpack/release"
	"github.com/klaim/glitchpack/style"
	"github.com/urfave/cli/v2"
)

const defaultLedger = "releases.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

var tileFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "prefix",
		EnvVars: []string{"GLITCHPACK_PREFIX"},
		Value:   glitchpack.DefaultConfig().Prefix,
		Usage:   "image filename prefix",
	},
	&cli.StringFlag{
		Name:  "name",
		Value: glitchpack.DefaultConfig().Name,
		Usage: "identifier the manifest is assigned to",
	},
	&cli.StringFlag{
		Name:  "wrapper",
		Value: glitchpack.DefaultConfig().Wrapper,
		Usage: "function each payload is wrapped in",
	},
}

var releaseFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		EnvVars: []string{"GLITCHPACK_CONFIG"},
		Usage:   "path to release configuration",
	},
	&cli.StringFlag{
		Name:  "root",
		Usage: "project directory",
	},
	&cli.StringFlag{
		Name:  "project",
		Usage: "project name",
	},
	&cli.StringFlag{
		Name:  "publisher",
		Usage: "publisher account",
	},
	&cli.StringFlag{
		Name:  "channel",
		Usage: "publishing channel",
	},
	&cli.StringFlag{
		Name:    "tool",
		EnvVars: []string{"GLITCHPACK_TOOL"},
		Usage:   "publishing tool executable",
	},
	&cli.StringFlag{
		Name:  "output-dir",
		Usage: "directory the archive is written to",
	},
	&cli.StringSliceFlag{
		Name:  "file",
		Usage: "file or directory to publish, repeatable",
	},
	&cli.BoolFlag{
		Name:  "strict",
		Usage: "stop when the publishing tool fails",
	},
}

var ledgerFlag = &cli.StringFlag{
	Name:    "ledger",
	EnvVars: []string{"GLITCHPACK_LEDGER"},
	Usage:   "path to release ledger",
}

func tileConfig(c *cli.Context, dir string) glitchpack.Config {
	config := glitchpack.DefaultConfig()
	config.TileDir = dir
	config.Prefix = c.String("prefix")
	config.Name = c.String("name")
	config.Wrapper = c.String("wrapper")
	return config
}

func releaseConfig(c *cli.Context) (release.Config, error) {
	config := release.DefaultConfig()
	if file := c.String("config"); file != "" {
		var err error
		if config, err = release.LoadConfig(file); err != nil {
			return config, err
		}
	}

	for name, field := range map[string]*string{
		"root":       &config.Root,
		"project":    &config.Project,
		"publisher":  &config.Publisher,
		"channel":    &config.Channel,
		"tool":       &config.Tool,
		"output-dir": &config.OutputDir,
	} {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if c.IsSet("file") {
		config.Files = c.StringSlice("file")
	}
	if c.IsSet("strict") {
		config.Strict = c.Bool("strict")
	}

	return config, config.Validate()
}

func ledgerPath(c *cli.Context, config release.Config) string {
	if path := c.String("ledger"); path != "" {
		return path
	}
	return filepath.Join(config.Root, defaultLedger)
}

func main() {
	app := cli.NewApp()

	app.Name = "glitchpack"
	app.Usage = "Hard Glitch asset build and release utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "styles",
			Usage:     "List the tile style codes in registry order",
			ArgsUsage: " ",
			Action: func(c *cli.Context) error {
				for _, s := range style.All() {
					fmt.Println(s)
				}
				return nil
			},
		},
		{
			Name:        "tiles",
			Usage:       "Compile tile images into a manifest",
			Description: "Reads <DIRECTORY>/<prefix><style>.png for every style and prints the manifest",
			ArgsUsage:   "DIRECTORY",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write the manifest to a file instead of standard output",
				},
			}, tileFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p := glitchpack.New(tileConfig(c, c.Args().First()), newLogger(c))

				if c.String("output") == "" {
					if err := p.Tiles(os.Stdout); err != nil {
						return cli.NewExitError(err, 1)
					}
					return nil
				}

				m, err := p.Compile()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				b, err := m.MarshalText()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := ioutil.WriteFile(c.String("output"), b, 0644); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "verify",
			Usage:     "Check a compiled manifest against the tile images",
			ArgsUsage: "MANIFEST DIRECTORY",
			Flags:     tileFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p := glitchpack.New(tileConfig(c, c.Args().Get(1)), newLogger(c))
				if err := p.Verify(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "version",
			Usage:     "Print the version the next release will use",
			ArgsUsage: " ",
			Flags:     releaseFlags,
			Action: func(c *cli.Context) error {
				config, err := releaseConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				version, err := glitchpack.New(glitchpack.Config{Release: config}, newLogger(c)).Version()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(version)

				return nil
			},
		},
		{
			Name:        "publish",
			Usage:       "Archive the game and publish it",
			Description: "Reads the version, zips the declared files, pushes the archive and prints the target status",
			ArgsUsage:   " ",
			Flags: append([]cli.Flag{
				ledgerFlag,
				&cli.BoolFlag{
					Name:  "no-ledger",
					Usage: "do not record the release",
				},
			}, releaseFlags...),
			Action: func(c *cli.Context) error {
				config, err := releaseConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var ledger *release.Ledger
				if !c.Bool("no-ledger") {
					if ledger, err = release.OpenLedger(ledgerPath(c, config)); err != nil {
						return cli.NewExitError(err, 1)
					}
					defer ledger.Close()
				}

				executor := &release.ExecExecutor{
					Tool:   config.Tool,
					Stdout: os.Stdout,
					Stderr: os.Stderr,
				}

				r, err := glitchpack.New(glitchpack.Config{Release: config}, newLogger(c)).Publish(context.Background(), executor, ledger)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Printf("%s %s push=%d status=%d\n", r.Target, r.Archive.Path, r.PushCode, r.StatusCode)

				return nil
			},
		},
		{
			Name:      "history",
			Usage:     "List recorded releases",
			ArgsUsage: " ",
			Flags:     append([]cli.Flag{ledgerFlag}, releaseFlags...),
			Action: func(c *cli.Context) error {
				config, err := releaseConfig(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				ledger, err := release.OpenLedger(ledgerPath(c, config))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer ledger.Close()

				records, err := ledger.History(config.Project)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, r := range records {
					fmt.Printf("%s\t%s\t%s\tpush=%d\tstatus=%d\t%s\n", r.Created.Format("2006-01-02 15:04:05"), r.Version, r.Archive, r.PushCode, r.StatusCode, r.SHA1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
