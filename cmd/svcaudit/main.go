package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "svcaudit",
		Usage:   "Service redundancy and dependency audit",
		Version: version,
		Description: `Svcaudit scans TypeScript service files, extracts their structure, and
reports duplicate services, copied code blocks, circular dependencies,
orphan services, and consolidation opportunities.

Run without a subcommand to audit the current directory and write a full
report.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SVCAUDIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "all-files",
				Usage: "Scan every .ts file instead of the configured service globs",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: runAuditCmd,
		Commands: []*cli.Command{
			auditCmd(),
			similarCmd(),
			duplicatesCmd(),
			graphCmd(),
			clustersCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
