// propertyinfer is the CLI for the sample property attribute inferrer:
// infer a field (or every field) for one or more parcels, seed a SQLite
// store from a YAML fixture, or serve the same inferrer over MCP.
//
// Usage:
//
//	propertyinfer infer --db <path> [--parcel <id>] [--field <name>] [--explain]
//	propertyinfer seed --db <path> -f <fixture.yaml>
//	propertyinfer serve --db <path>
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
