// Package main is the entry point for the mutafuzz CLI.
package main

import "mutafuzz.dev/pkg/mutafuzz/cmd"

func main() {
	cmd.Execute()
}
