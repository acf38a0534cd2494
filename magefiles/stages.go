package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Stage targets run the built CLI against the default configuration
// (scholarbot.yaml in the working directory, if present).

// Collect retrieves papers for a topic into the output directory.
func Collect(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "collect", topic)
}

// Summarize condenses the abstracts collected for a topic.
func Summarize(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "summarize", "--topic", topic)
}

// Insights generates insights and a hypothesis per summary for a topic.
func Insights(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "insights", "--topic", topic)
}

// RelatedWork synthesizes the related-work section for a topic.
func RelatedWork(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "related-work", "--topic", topic)
}

// Run executes all four stages for a topic.
func Run(topic string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "run", topic)
}
