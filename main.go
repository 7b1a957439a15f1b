// Package main is the entry point for the iplstats CLI tool, which computes
// team, player and auction statistics from IPL datasets.
package main

import "github.com/pable/ipl-stats/cmd"

func main() {
	cmd.Execute()
}
