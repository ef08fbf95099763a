// Package main is the entry point for the sbmetrics CLI tool, which ingests
// StatsBomb-style match event JSON and computes midfield defensive metrics.
package main

import "github.com/jbadia/go-sb-metrics/cmd"

func main() {
	cmd.Execute()
}
