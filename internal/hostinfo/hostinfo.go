// Package hostinfo answers the few questions the first-boot services ask about
// the machine they run on.
package hostinfo

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// UnknownIP is shown wherever the address could not be determined.
const UnknownIP = "unknown"

const DefaultTimeout = 5 * time.Second

var (
	DefaultIPCommand   = []string{"hostname", "-I"}
	DefaultLinkCommand = []string{"ip", "link", "show"}

	// interface names of wired links, both legacy and predictable naming
	wiredLinkRegexp = regexp.MustCompile(`(?m)^\d+:\s+(eth|enp)[^:]*:`)
)

// IPResolver returns the address users should connect to.
type IPResolver interface {
	IPAddress(ctx context.Context) string
}

// CommandIPResolver runs a command printing the host's addresses separated by
// whitespace and picks the first one.
type CommandIPResolver struct {
	Command []string
	Timeout time.Duration
}

func NewIPResolver() *CommandIPResolver {
	return &CommandIPResolver{
		Command: DefaultIPCommand,
		Timeout: DefaultTimeout,
	}
}

// IPAddress returns the first address or UnknownIP on any failure.
func (r *CommandIPResolver) IPAddress(ctx context.Context) string {
	out, err := runCommand(ctx, r.Command, r.Timeout)
	if err != nil {
		return UnknownIP
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return UnknownIP
	}
	return fields[0]
}

// StaticIPResolver always answers with the same address.
type StaticIPResolver string

func (r StaticIPResolver) IPAddress(context.Context) string {
	return string(r)
}

// HasWiredLink reports whether the link listing printed by command contains
// an ethernet interface. Failures count as "no wired link".
func HasWiredLink(ctx context.Context, command []string) bool {
	if len(command) == 0 {
		command = DefaultLinkCommand
	}
	out, err := runCommand(ctx, command, DefaultTimeout)
	if err != nil {
		return false
	}
	return wiredLinkRegexp.MatchString(out)
}

func runCommand(ctx context.Context, command []string, timeout time.Duration) (string, error) {
	if len(command) == 0 {
		return "", exec.ErrNotFound
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	/* #nosec G204 */
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}
