package brain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/epavlenko/openclaw-youtube/internal/core/ports"
)

// Command is the host-provided model backend: it runs a configured command,
// feeds the prompt on stdin, and reads the reply from stdout. This is how
// a hosting agent runtime lends its model to the plugin without any API
// key of our own.
type Command struct {
	command string
	timeout time.Duration
}

func NewCommand(command string, timeout time.Duration) *Command {
	return &Command{command: command, timeout: timeout}
}

var _ ports.ReplyAuthor = (*Command)(nil)

func (c *Command) Name() string { return string(KindCommand) }

func (c *Command) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	parts := strings.Fields(c.command)
	if len(parts) == 0 {
		return "", fmt.Errorf("host model command is empty")
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Stdin = strings.NewReader(prompt)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("host model command: %w: %s", err, detail)
		}
		return "", fmt.Errorf("host model command: %w", err)
	}
	return stdout.String(), nil
}
