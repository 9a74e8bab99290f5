// Package main provides CLI flag definitions for jekyllctl.
package main

import (
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "blog-root",
			Aliases: []string{"r"},
			Usage:   "Path to the blog working tree (default: current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringFlag{
			Name:  "listen",
			Usage: "Admin server bind address (also retargets the dashboard)",
		},
	}
}
