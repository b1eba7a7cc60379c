// Package main is the entry point for the tacklemetrics CLI tool, which turns
// NFL player-tracking data into per-defender tackle features and models.
package main

import "github.com/pable/go-tackle-metrics/cmd"

func main() {
	cmd.Execute()
}
