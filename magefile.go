//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "glossa"
	mainPkg = "./cmd/glossa"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the glossa binary into the project root
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, mainPkg)
}

// Install installs glossa into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", mainPkg)
}

// Test runs all tests with the race detector
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Short runs the tests that need neither network nor audio tools
func Short() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Vet runs go vet on all packages
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Coverage writes an HTML coverage report to coverage.html
func Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Clean removes build artifacts
func Clean() error {
	for _, f := range []string{binary, "coverage.out", "coverage.html"} {
		if err := os.RemoveAll(filepath.Clean(f)); err != nil {
			return err
		}
	}
	return nil
}
