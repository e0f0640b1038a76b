// Package scan lists nearby WiFi networks by running the network manager's
// scan command. Scanning is best effort: every failure ends up as an empty
// list so the user can still type an SSID by hand.
package scan

import (
	"bytes"
	"context"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// MaxTimeout bounds a single scan no matter what is configured.
	MaxTimeout = 10 * time.Second

	// nmcli prints this instead of an SSID for hidden networks
	hiddenSSID = "--"
)

var DefaultCommand = []string{"nmcli", "-t", "-f", "SSID,SIGNAL", "device", "wifi", "list"}

// Network is a single access point as offered to the user.
type Network struct {
	SSID   string `json:"ssid"`
	Signal int    `json:"signal"`
}

type Scanner struct {
	Command []string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Scanner {
	return &Scanner{
		Command: DefaultCommand,
		Timeout: MaxTimeout,
		Logger:  logger,
	}
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 || s.Timeout > MaxTimeout {
		return MaxTimeout
	}
	return s.Timeout
}

func (s *Scanner) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// Scan runs the scan command and returns the networks it found, strongest
// first. It never returns nil.
func (s *Scanner) Scan(ctx context.Context) []Network {
	if len(s.Command) == 0 {
		return []Network{}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var stdout, stderr bytes.Buffer
	/* #nosec G204 */
	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = ctx.Err()
		}
		s.logger().WithFields(logrus.Fields{
			"command": s.Command[0],
			"stderr":  strings.TrimSpace(stderr.String()),
		}).Warnf("wifi scan failed: %v", err)
		return []Network{}
	}

	networks := ParseNetworks(stdout.String())
	s.logger().Debugf("wifi scan found %d networks in %s", len(networks), time.Since(start).Round(time.Millisecond))
	return networks
}

// ParseNetworks parses terse "SSID:SIGNAL" lines. Empty, malformed and hidden
// entries are skipped, duplicates keep their first occurrence and the result
// is ordered by signal, strongest first. Entries with equal signal keep the
// order they were listed in.
func ParseNetworks(output string) []Network {
	networks := []Network{}
	seen := make(map[string]bool)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		fields := splitTerse(line)
		if len(fields) < 2 {
			continue
		}

		ssid := strings.TrimSpace(fields[0])
		if ssid == "" || ssid == hiddenSSID {
			continue
		}

		signal, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}

		if seen[ssid] {
			continue
		}
		seen[ssid] = true

		networks = append(networks, Network{SSID: ssid, Signal: clampSignal(signal)})
	}

	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].Signal > networks[j].Signal
	})

	return networks
}

func clampSignal(signal int) int {
	if signal < 0 {
		return 0
	}
	if signal > 100 {
		return 100
	}
	return signal
}

// splitTerse splits a line of nmcli terse output on ':' while honouring the
// backslash escapes nmcli uses for ':' and '\' inside values.
func splitTerse(line string) []string {
	var fields []string
	var current strings.Builder

	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}

	return append(fields, current.String())
}
