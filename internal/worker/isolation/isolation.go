// Package isolation runs untrusted site builds inside hardened containers.
// Builds get a read-only source mount, a writable output mount, dropped
// capabilities, resource limits, and a dedicated bridge network with RFC1918
// egress blocked. When the container engine is unreachable the package fails
// closed unless degraded mode is explicitly allowed, in which case builds run
// directly on the host and every result carries a warning.
package isolation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/core"
)

// DegradedWarning is attached to every build that ran without a container.
const DegradedWarning = "build ran without container isolation"

// logTailLimit bounds how much container output is kept for error reporting.
const logTailLimit = 64 * 1024

// removeTimeout bounds container cleanup after a build ends.
const removeTimeout = 30 * time.Second

// Manager implements core.BuildRunner against a Docker-compatible engine.
type Manager struct {
	cli    client.APIClient
	cfg    config.IsolationConfig
	logger *slog.Logger

	// connectErr records why the engine is unavailable; non-nil means
	// every Run either degrades or fails depending on cfg.AllowDegraded.
	connectErr error
}

// Options configures a Manager.
type Options struct {
	Config config.IsolationConfig
	Logger *slog.Logger
	// Client overrides the engine client, for tests.
	Client client.APIClient
}

// NewManager connects to the container engine. Connection failure is not
// fatal here; it is surfaced per build so degraded mode can apply.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:    opts.Config,
		logger: logger.With("component", "isolation"),
	}
	if opts.Client != nil {
		m.cli = opts.Client
		return m
	}

	clientOpts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if opts.Config.DockerHost != "" {
		clientOpts = append(clientOpts, client.WithHost(opts.Config.DockerHost))
	}
	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		m.connectErr = fmt.Errorf("connect container engine: %w", err)
		m.logger.Warn("container engine unavailable", "err", err, "allow_degraded", opts.Config.AllowDegraded)
		return m
	}
	m.cli = cli
	return m
}

// Run executes one build. The source directory is mounted read-only; the
// build script copies it to a tmpfs, runs the build command, and copies the
// named output directory into the artifact mount.
func (m *Manager) Run(ctx context.Context, p core.RunParams) (*core.BuildResult, error) {
	if m.connectErr != nil {
		if !m.cfg.AllowDegraded {
			return nil, fmt.Errorf("isolation unavailable and degraded builds are disabled: %w", m.connectErr)
		}
		m.logger.Warn("running degraded build on host", "site_id", p.SiteID)
		return m.runDirect(ctx, p)
	}

	if err := m.ensureNetwork(ctx); err != nil {
		if !m.cfg.AllowDegraded {
			return nil, err
		}
		m.logger.Warn("build network unavailable, running degraded build on host", "site_id", p.SiteID, "err", err)
		return m.runDirect(ctx, p)
	}
	if err := m.ensureImage(ctx); err != nil {
		return nil, err
	}

	name := "halyard-build-" + uuid.NewString()
	containerCfg := &container.Config{
		Image:      m.cfg.BuildImage,
		Cmd:        []string{"sh", "-c", buildScript(p.BuildCommand, p.OutputDir)},
		WorkingDir: "/workspace",
		Env: []string{
			"NIX_CONFIG=experimental-features = nix-command flakes",
			"HOME=/tmp",
		},
	}
	pids := m.cfg.PidsLimit
	hostCfg := &container.HostConfig{
		Mounts: []mount.Mount{
			{Type: mount.TypeBind, Source: p.SourceDir, Target: "/workspace", ReadOnly: true},
			{Type: mount.TypeBind, Source: p.ArtifactDir, Target: "/output"},
		},
		Resources: container.Resources{
			Memory:    m.cfg.MemoryLimitBytes,
			CPUPeriod: 100000,
			CPUQuota:  m.cfg.CPUQuota,
			PidsLimit: &pids,
		},
		SecurityOpt:    []string{"no-new-privileges:true"},
		CapDrop:        []string{"ALL"},
		ReadonlyRootfs: true,
		Tmpfs:          map[string]string{"/tmp": "size=2G,mode=1777"},
		NetworkMode:    container.NetworkMode(m.cfg.NetworkName),
	}

	created, err := m.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		return nil, fmt.Errorf("create build container: %w", err)
	}
	defer m.removeContainer(created.ID)

	if err := m.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("start build container: %w", err)
	}

	m.logger.Info("container build started", "site_id", p.SiteID, "container", name, "image", m.cfg.BuildImage)

	logs := m.collectLogs(ctx, created.ID)

	waitCh, errCh := m.cli.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case status := <-waitCh:
		if status.StatusCode != 0 {
			return nil, fmt.Errorf("build exited with code %d:\n%s", status.StatusCode, logs())
		}
	case err := <-errCh:
		return nil, fmt.Errorf("wait for build container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("build cancelled: %w", ctx.Err())
	}

	m.logger.Info("container build finished", "site_id", p.SiteID, "container", name)
	return &core.BuildResult{}, nil
}

// collectLogs streams container output into a bounded buffer and returns a
// function that yields the tail once streaming is done.
func (m *Manager) collectLogs(ctx context.Context, containerID string) func() string {
	var buf bytes.Buffer
	reader, err := m.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		m.logger.Warn("failed to attach to container logs", "container", containerID, "err", err)
		return func() string { return "" }
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer reader.Close() //nolint:errcheck
		limited := &limitedWriter{limit: logTailLimit, w: &buf}
		if _, err := stdcopy.StdCopy(limited, limited, reader); err != nil && err != io.EOF {
			m.logger.Debug("container log stream ended", "container", containerID, "err", err)
		}
	}()

	return func() string {
		<-done
		return strings.TrimSpace(buf.String())
	}
}

func (m *Manager) removeContainer(containerID string) {
	// Separate context so cleanup survives build cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), removeTimeout)
	defer cancel()
	if err := m.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		m.logger.Warn("failed to remove build container", "container", containerID, "err", err)
	}
}

func (m *Manager) ensureImage(ctx context.Context) error {
	if _, err := m.cli.ImageInspect(ctx, m.cfg.BuildImage); err == nil {
		return nil
	}

	m.logger.Info("pulling build image", "image", m.cfg.BuildImage)
	reader, err := m.cli.ImagePull(ctx, m.cfg.BuildImage, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull build image %s: %w", m.cfg.BuildImage, err)
	}
	defer reader.Close() //nolint:errcheck
	// Drain the progress stream; the pull completes when it ends.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("pull build image %s: %w", m.cfg.BuildImage, err)
	}
	return nil
}

// buildScript produces the shell script run inside the container. The
// workspace mount is read-only, so the build happens in a tmpfs copy.
func buildScript(buildCommand, outputDir string) string {
	var b strings.Builder
	b.WriteString("set -e\n")
	b.WriteString("cp -r /workspace /tmp/build\n")
	b.WriteString("cd /tmp/build\n")
	b.WriteString(buildCommand + "\n")
	fmt.Fprintf(&b, "cp -r /tmp/build/%s/. /output/\n", outputDir)
	return b.String()
}

// limitedWriter keeps the first limit bytes and silently drops the rest.
type limitedWriter struct {
	limit int
	w     io.Writer
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if l.limit <= 0 {
		return n, nil
	}
	if len(p) > l.limit {
		p = p[:l.limit]
	}
	written, err := l.w.Write(p)
	l.limit -= written
	if err != nil {
		return written, err
	}
	return n, nil
}
