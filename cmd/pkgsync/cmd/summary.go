package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
)

// report prints the outcome of an operation on a package
func report(what, name string, err error) {
	if err != nil {
		logStdOut("%s %s %s: %v\n", failMark("✗"), what, name, err)
		return
	}
	logStdOut("%s %s %s\n", okMark("✓"), what, name)
}

// forEachPackage runs an operation on each package and reports each outcome
func forEachPackage(what string, names []string, operation func(string) error) error {
	failed := 0
	for _, name := range names {
		err := operation(name)
		report(what, name, err)
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%s failed for %d package(s)", what, failed)
	}
	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
