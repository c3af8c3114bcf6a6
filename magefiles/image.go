//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/sh"
)

const (
	imageName  = "pdf2docx:latest"
	dockerfile = "build/pdf2docx/Dockerfile"
)

// Image builds the pdf2docx container image used for PDF to DOCX conversion.
// It uses docker when present, otherwise podman.
func Image() error {
	runtime := "docker"
	if _, err := sh.Output("docker", "version"); err != nil {
		runtime = "podman"
	}
	if _, err := os.Stat(dockerfile); err != nil {
		return fmt.Errorf("missing %s: %w", dockerfile, err)
	}
	if err := sh.RunV(runtime, "build", "-t", imageName, "-f", dockerfile, "build/pdf2docx"); err != nil {
		return fmt.Errorf("%s build: %w", runtime, err)
	}
	fmt.Printf("Built %s with %s\n", imageName, runtime)
	return nil
}
