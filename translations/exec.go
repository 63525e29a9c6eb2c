package translations

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// runCommand executes an external tool, capturing stdout and stderr
// separately. An empty dir runs in the current directory.
func runCommand(ctx context.Context, dir, stdin, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// runner is swapped out in tests to avoid invoking git and the gettext
// tools.
var runner = runCommand
