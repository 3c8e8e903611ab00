package isolation

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/halyard-dev/halyard/internal/core"
)

// runDirect executes the build command on the host with no sandbox. It is
// only reached when AllowDegraded is set, and the result always carries
// DegradedWarning so operators and PR comments see it.
func (m *Manager) runDirect(ctx context.Context, p core.RunParams) (*core.BuildResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", p.BuildCommand)
	cmd.Dir = p.SourceDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		tail := out
		if len(tail) > logTailLimit {
			tail = tail[len(tail)-logTailLimit:]
		}
		return nil, fmt.Errorf("build command failed: %w:\n%s", err, strings.TrimSpace(string(tail)))
	}

	produced := filepath.Join(p.SourceDir, p.OutputDir)
	info, err := os.Stat(produced)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("build output directory %s does not exist", p.OutputDir)
	}
	if err := copyTree(produced, p.ArtifactDir); err != nil {
		return nil, fmt.Errorf("collect build output: %w", err)
	}

	return &core.BuildResult{Warnings: []string{DegradedWarning}}, nil
}

// copyTree copies the contents of src into dst, creating dst if needed.
func copyTree(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyTree(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec
		return err
	}
	return out.Close()
}
