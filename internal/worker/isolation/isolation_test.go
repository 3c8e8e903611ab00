package isolation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/core"
)

// fakeEngine stubs the container engine. Methods the tests do not override
// panic through the embedded nil interface, which keeps unexpected calls
// visible.
type fakeEngine struct {
	client.APIClient

	inspectNetwork func(ctx context.Context, name string) (network.Inspect, error)
	hostCfg        *container.HostConfig
	containerCfg   *container.Config
}

func (f *fakeEngine) NetworkInspect(ctx context.Context, networkID string, _ network.InspectOptions) (network.Inspect, error) {
	return f.inspectNetwork(ctx, networkID)
}

func (f *fakeEngine) ImageInspect(context.Context, string, ...client.ImageInspectOption) (image.InspectResponse, error) {
	return image.InspectResponse{}, nil
}

func (f *fakeEngine) ContainerCreate(_ context.Context, cfg *container.Config, hostCfg *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, _ string) (container.CreateResponse, error) {
	f.containerCfg = cfg
	f.hostCfg = hostCfg
	return container.CreateResponse{ID: "build-1"}, nil
}

func (f *fakeEngine) ContainerStart(context.Context, string, container.StartOptions) error {
	return nil
}

func (f *fakeEngine) ContainerLogs(context.Context, string, container.LogsOptions) (io.ReadCloser, error) {
	return nil, errors.New("log streaming disabled")
}

func (f *fakeEngine) ContainerWait(context.Context, string, container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	waitCh := make(chan container.WaitResponse, 1)
	waitCh <- container.WaitResponse{StatusCode: 0}
	return waitCh, make(chan error, 1)
}

func (f *fakeEngine) ContainerRemove(context.Context, string, container.RemoveOptions) error {
	return nil
}

func TestBuildScript(t *testing.T) {
	t.Parallel()

	script := buildScript("npm ci && npm run build", "dist")
	assert.Contains(t, script, "set -e\n")
	assert.Contains(t, script, "cp -r /workspace /tmp/build\n")
	assert.Contains(t, script, "cd /tmp/build\n")
	assert.Contains(t, script, "npm ci && npm run build\n")
	assert.Contains(t, script, "cp -r /tmp/build/dist/. /output/\n")
}

func TestSubnetsOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "10.89.0.0/24", "10.89.0.0/24", true},
		{"adjacent 24s", "10.89.0.0/24", "10.89.1.0/24", false},
		{"different class", "10.89.0.0/24", "192.168.1.0/24", false},
		{"wider contains narrower", "10.0.0.0/8", "10.89.0.0/24", true},
		{"narrower inside wider", "10.89.0.0/24", "10.0.0.0/8", true},
		{"172.16/12 contains 172.17", "172.16.0.0/12", "172.17.0.0/24", true},
		{"172.16/12 excludes 172.32", "172.16.0.0/12", "172.32.0.0/24", false},
		{"unparseable is no overlap", "garbage", "10.0.0.0/8", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, subnetsOverlap(tt.a, tt.b))
		})
	}
}

func TestRunFailsClosedWithoutEngine(t *testing.T) {
	t.Parallel()

	m := &Manager{
		cfg:        config.IsolationConfig{AllowDegraded: false},
		logger:     discardLogger(),
		connectErr: assert.AnError,
	}

	_, err := m.Run(context.Background(), core.RunParams{SiteID: "acme-website-main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "degraded builds are disabled")
}

func TestEnsureNetworkFailsWhenEgressRulesCannotInstall(t *testing.T) {
	// Remove iptables from the lookup path so rule installation fails.
	t.Setenv("PATH", "")

	eng := &fakeEngine{
		inspectNetwork: func(context.Context, string) (network.Inspect, error) {
			return network.Inspect{
				IPAM: network.IPAM{Config: []network.IPAMConfig{{Subnet: "10.89.0.0/24"}}},
			}, nil
		},
	}
	m := &Manager{
		cli:    eng,
		cfg:    config.IsolationConfig{NetworkName: "halyard-build"},
		logger: discardLogger(),
	}

	err := m.ensureNetwork(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "egress rules")
}

func TestRunFailsClosedWhenEgressRulesCannotInstall(t *testing.T) {
	t.Setenv("PATH", "")

	eng := &fakeEngine{
		inspectNetwork: func(context.Context, string) (network.Inspect, error) {
			return network.Inspect{
				IPAM: network.IPAM{Config: []network.IPAMConfig{{Subnet: "10.89.0.0/24"}}},
			}, nil
		},
	}
	m := &Manager{
		cli:    eng,
		cfg:    config.IsolationConfig{NetworkName: "halyard-build", AllowDegraded: false},
		logger: discardLogger(),
	}

	_, err := m.Run(context.Background(), core.RunParams{SiteID: "acme-website-main"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "egress rules")
	assert.Nil(t, eng.hostCfg, "no container may start without egress rules")
}

func TestRunDegradedWhenBuildNetworkUnavailable(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{
		inspectNetwork: func(context.Context, string) (network.Inspect, error) {
			return network.Inspect{}, errors.New("dial unix /var/run/docker.sock: connection refused")
		},
	}
	m := &Manager{
		cli:    eng,
		cfg:    config.IsolationConfig{NetworkName: "halyard-build", AllowDegraded: true},
		logger: discardLogger(),
	}

	result, err := m.Run(context.Background(), core.RunParams{
		SourceDir:    t.TempDir(),
		ArtifactDir:  t.TempDir(),
		BuildCommand: "mkdir -p dist && echo ok > dist/index.html",
		OutputDir:    "dist",
		SiteID:       "acme-website-main",
	})
	require.NoError(t, err)
	assert.Contains(t, result.Warnings, DegradedWarning)
}

func TestContainerBuildHardening(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{
		inspectNetwork: func(context.Context, string) (network.Inspect, error) {
			// Existing network with no IPAM config; nothing to enforce.
			return network.Inspect{}, nil
		},
	}
	pids := int64(256)
	m := &Manager{
		cli: eng,
		cfg: config.IsolationConfig{
			BuildImage:       "nixos/nix:latest",
			NetworkName:      "halyard-build",
			MemoryLimitBytes: 4 << 30,
			CPUQuota:         200000,
			PidsLimit:        pids,
		},
		logger: discardLogger(),
	}

	_, err := m.Run(context.Background(), core.RunParams{
		SourceDir:    t.TempDir(),
		ArtifactDir:  t.TempDir(),
		BuildCommand: "zola build",
		OutputDir:    "public",
		SiteID:       "acme-website-main",
	})
	require.NoError(t, err)

	require.NotNil(t, eng.containerCfg)
	assert.Equal(t, "nixos/nix:latest", eng.containerCfg.Image)
	assert.Equal(t, "/workspace", eng.containerCfg.WorkingDir)

	hc := eng.hostCfg
	require.NotNil(t, hc)
	assert.True(t, hc.ReadonlyRootfs)
	assert.Equal(t, []string{"no-new-privileges:true"}, hc.SecurityOpt)
	assert.Equal(t, []string{"ALL"}, []string(hc.CapDrop))
	assert.Contains(t, hc.Tmpfs, "/tmp")
	assert.Equal(t, container.NetworkMode("halyard-build"), hc.NetworkMode)
	require.Len(t, hc.Mounts, 2)
	assert.True(t, hc.Mounts[0].ReadOnly, "workspace mount must be read-only")
	assert.False(t, hc.Mounts[1].ReadOnly, "output mount must stay writable")
	assert.Equal(t, int64(4<<30), hc.Resources.Memory)
	require.NotNil(t, hc.Resources.PidsLimit)
	assert.Equal(t, pids, *hc.Resources.PidsLimit)
}

func TestRunDegradedExecutesOnHost(t *testing.T) {
	t.Parallel()

	source := t.TempDir()
	artifacts := t.TempDir()

	m := &Manager{
		cfg:        config.IsolationConfig{AllowDegraded: true},
		logger:     discardLogger(),
		connectErr: assert.AnError,
	}

	result, err := m.Run(context.Background(), core.RunParams{
		SourceDir:    source,
		ArtifactDir:  artifacts,
		BuildCommand: "mkdir -p dist && echo '<h1>hi</h1>' > dist/index.html",
		OutputDir:    "dist",
		SiteID:       "acme-website-main",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Contains(t, result.Warnings, DegradedWarning)

	html, err := os.ReadFile(filepath.Join(artifacts, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "hi")
}

func TestRunDegradedFailsWhenOutputMissing(t *testing.T) {
	t.Parallel()

	m := &Manager{
		cfg:        config.IsolationConfig{AllowDegraded: true},
		logger:     discardLogger(),
		connectErr: assert.AnError,
	}

	_, err := m.Run(context.Background(), core.RunParams{
		SourceDir:    t.TempDir(),
		ArtifactDir:  t.TempDir(),
		BuildCommand: "true",
		OutputDir:    "dist",
		SiteID:       "acme-website-main",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory")
}

func TestRunDegradedSurfacesBuildFailure(t *testing.T) {
	t.Parallel()

	m := &Manager{
		cfg:        config.IsolationConfig{AllowDegraded: true},
		logger:     discardLogger(),
		connectErr: assert.AnError,
	}

	_, err := m.Run(context.Background(), core.RunParams{
		SourceDir:    t.TempDir(),
		ArtifactDir:  t.TempDir(),
		BuildCommand: "echo 'missing tool' >&2; exit 3",
		OutputDir:    "dist",
		SiteID:       "acme-website-main",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tool")
}

func TestCopyTreePreservesNesting(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "assets", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte("root"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "assets", "css", "site.css"), []byte("body{}"), 0o644))

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, copyTree(src, dst))

	root, err := os.ReadFile(filepath.Join(dst, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "root", string(root))

	css, err := os.ReadFile(filepath.Join(dst, "assets", "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
