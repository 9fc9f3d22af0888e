// FILE: lixenwraith/flatconfig/cmd/flatconfig/main.go
// Command flatconfig loads configuration files and prints the merged view.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"

	"github.com/lixenwraith/flatconfig"
	"github.com/lixenwraith/flatconfig/provider/sqlite"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newApp creates the CLI application writing results to out and logs to logOut.
func newApp(out, logOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "flatconfig",
		Usage:     "Inspect merged configuration from JSON, XML, YAML, TOML and SQLite sources",
		Writer:    out,
		ErrWriter: logOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level: trace, debug, info, warn, error",
				EnvVars: []string{"FLATCONFIG_LOG_LEVEL"},
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:  "sqlite-table",
				Usage: "Table holding key/value rows in SQLite sources",
				Value: sqlite.DefaultTable,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "keys",
				Usage:     "List every key with its value",
				ArgsUsage: "FILE...",
				Action: func(c *cli.Context) error {
					svc, err := loadSources(c, logOut)
					if err != nil {
						return err
					}
					for _, key := range svc.Keys() {
						value, _ := svc.Get(key)
						fmt.Fprintf(c.App.Writer, "%s = %v\n", key, value)
					}
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "Print the value of one key",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Required: true, Usage: "Dotted key path"},
					&cli.StringFlag{Name: "default", Aliases: []string{"d"}, Usage: "Value printed when the key is absent"},
				},
				Action: func(c *cli.Context) error {
					svc, err := loadSources(c, logOut)
					if err != nil {
						return err
					}
					value, err := svc.String(c.String("key"), c.String("default"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, value)
					return nil
				},
			},
			{
				Name:      "dump",
				Usage:     "Print the merged configuration as TOML",
				ArgsUsage: "FILE...",
				Action: func(c *cli.Context) error {
					svc, err := loadSources(c, logOut)
					if err != nil {
						return err
					}
					return svc.Dump(c.App.Writer)
				},
			},
		},
	}
}

// loadSources builds a service with every provider this tool knows and
// loads the command's arguments in order.
func loadSources(c *cli.Context, logOut io.Writer) (*flatconfig.Service, error) {
	if c.NArg() == 0 {
		return nil, fmt.Errorf("at least one configuration file is required")
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "flatconfig",
		Level:  hclog.LevelFromString(c.String("log-level")),
		Output: logOut,
	})

	sqliteProvider, err := sqlite.New(sqlite.WithTable(c.String("sqlite-table")))
	if err != nil {
		return nil, err
	}

	return flatconfig.NewBuilderFor(flatconfig.New(flatconfig.WithLogger(logger))).
		AddProvider(flatconfig.NewTOMLProvider()).
		AddProvider(sqliteProvider).
		LoadFrom(c.Args().Slice()...).
		Build()
}
