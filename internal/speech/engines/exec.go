package engines

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxOutputSize caps subprocess output so a runaway engine cannot exhaust
// memory.
const maxOutputSize = 32 << 20

// runCommand runs name with stdin and returns its stdout. The process is
// killed when ctx is done.
func runCommand(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output, stderr: %s", name, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() > maxOutputSize {
		return nil, fmt.Errorf("%s output too large: %d bytes", name, stdout.Len())
	}
	return stdout.Bytes(), nil
}

// checkBinary verifies that name is on PATH and runs with versionArg.
func checkBinary(name, versionArg string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	if err := exec.Command(path, versionArg).Run(); err != nil {
		return fmt.Errorf("cannot execute %s: %w", name, err)
	}
	return nil
}
