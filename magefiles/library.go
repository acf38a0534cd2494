package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Index records a topic's artifacts in the local library.
func Index(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "library", "index", topic)
}

// Export writes the library to library/export.yaml.
func Export() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "library", "export")
}
