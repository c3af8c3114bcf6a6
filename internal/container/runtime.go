// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container implements container runtime detection and execution.
// The PDF to DOCX converter runs its layout-reconstruction tool through it.
package container

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/docconv/pkg/types"
)

const (
	binDocker = "docker"
	binPodman = "podman"

	// maxStderr caps how much container stderr is kept for error messages.
	maxStderr = 4096

	// namePrefix starts the name of every container docconv runs.
	namePrefix = "docconv-"

	// removeTimeout bounds the forced removal of a cancelled container.
	removeTimeout = 30 * time.Second

	// cliWaitDelay bounds how long a killed CLI may hold its stdio pipes.
	cliWaitDelay = 10 * time.Second
)

// Mount binds a host path into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

func (m Mount) volumeArg() string {
	v := m.Source + ":" + m.Target
	if m.ReadOnly {
		v += ":ro"
	}
	return v
}

// RunSpec describes a single container invocation.
type RunSpec struct {
	// Name is the container name. Run picks a unique one when empty.
	Name   string
	Image  string
	Mounts []Mount
	// Args are appended after the image name.
	Args []string
	// Stdin is optional; when set the container runs with -i.
	Stdin  io.Reader
	Stdout io.Writer
}

// Runtime provides container operations: checking availability, verifying
// images, and running containers.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists checks whether the named image exists locally.
	// Returns nil when the image is found, or an error describing the failure.
	ImageExists(ctx context.Context, image string) error

	// Run executes a throwaway container without network access. When ctx
	// ends before the container exits, the container is force-removed
	// before Run returns.
	Run(ctx context.Context, spec RunSpec) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = cliWaitDelay
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > maxStderr {
			msg = msg[len(msg)-maxStderr:]
		}
		if msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// runtime implements Runtime for a specific container binary. Both Docker
// and Podman share the same logic; they differ only in binary name and the
// subcommand used to check image existence.
type runtime struct {
	bin           string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	exec          executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, spec RunSpec) error {
	if spec.Name == "" {
		spec.Name = newContainerName()
	}
	args := runArgs(spec)
	stdout := spec.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	err := r.exec.RunPiped(ctx, r.bin, args, spec.Stdin, stdout)
	if err != nil && ctx.Err() != nil {
		// Killing the CLI leaves the container running on the daemon.
		if rmErr := r.remove(ctx, spec.Name); rmErr != nil {
			return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, errors.Join(ctx.Err(), rmErr))
		}
		return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, spec.Image, err)
	}
	return nil
}

// remove force-removes the named container. It runs on a fresh deadline
// because ctx is already done.
func (r *runtime) remove(ctx context.Context, name string) error {
	rmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), removeTimeout)
	defer cancel()
	if err := r.exec.RunSilent(rmCtx, r.bin, "rm", "-f", name); err != nil {
		return fmt.Errorf("removing %s container %s: %w", r.bin, name, err)
	}
	return nil
}

func newContainerName() string {
	return namePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// runArgs builds the "run" command line shared by docker and podman.
func runArgs(spec RunSpec) []string {
	args := []string{"run", "--rm", "--network", "none"}
	if spec.Name != "" {
		args = append(args, "--name", spec.Name)
	}
	if spec.Stdin != nil {
		args = append(args, "-i")
	}
	for _, m := range spec.Mounts {
		args = append(args, "-v", m.volumeArg())
	}
	args = append(args, spec.Image)
	return append(args, spec.Args...)
}

func newDockerRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

var defaultExec = &osExecutor{}

// DetectRuntime returns the runtime named by want. With types.RuntimeAuto it
// tries docker first and falls back to podman. Returns an error if the
// requested runtime is not available.
func DetectRuntime(ctx context.Context, want types.ContainerRuntimeName) (Runtime, error) {
	return detectRuntime(ctx, defaultExec, want)
}

func detectRuntime(ctx context.Context, exec executor, want types.ContainerRuntimeName) (Runtime, error) {
	var candidates []*runtime
	switch want {
	case types.RuntimeDocker:
		candidates = []*runtime{newDockerRuntime(exec)}
	case types.RuntimePodman:
		candidates = []*runtime{newPodmanRuntime(exec)}
	case types.RuntimeAuto, "":
		candidates = []*runtime{newDockerRuntime(exec), newPodmanRuntime(exec)}
	default:
		return nil, fmt.Errorf("unknown container runtime %q", want)
	}

	for _, rt := range candidates {
		if rt.Available(ctx) {
			return rt, nil
		}
	}

	if len(candidates) == 1 {
		return nil, fmt.Errorf("no container runtime available: %s not found or not operational", candidates[0].bin)
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
