//go:build mage

// Package main provides build targets for the onto project using Mage.
//
// Usage:
//
//	mage build       Compile onto binary to bin/
//	mage test:all    Run all tests
//	mage test:race   Run all tests with the race detector
//	mage test:smoke  Build, then run an end-to-end CLI smoke check
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install onto to GOPATH/bin
//	mage stats       Print Go LOC counts
package main

const (
	binGo      = "go"
	binaryName = "onto"
	binaryDir  = "bin"
	cmdDir     = "./cmd/onto"
)
