// Package main provides the labeled CLI: backend discovery and a host/device
// round-trip self check.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

const version = "v0.0.1-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
