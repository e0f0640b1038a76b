package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runtipios/firstboot/internal/scan"
)

func TestParseDedupAndSkip(t *testing.T) {
	networks := scan.ParseNetworks("Home:80\n--:50\n\nHome:80\n")
	assert.Equal(t, []scan.Network{{SSID: "Home", Signal: 80}}, networks)
}

func TestParseRanking(t *testing.T) {
	networks := scan.ParseNetworks("A:30\nB:90\nC:60\n")
	assert.Equal(t, []scan.Network{
		{SSID: "B", Signal: 90},
		{SSID: "C", Signal: 60},
		{SSID: "A", Signal: 30},
	}, networks)
}

func TestParseStableTies(t *testing.T) {
	networks := scan.ParseNetworks("first:50\nsecond:70\nthird:50\n")
	assert.Equal(t, []scan.Network{
		{SSID: "second", Signal: 70},
		{SSID: "first", Signal: 50},
		{SSID: "third", Signal: 50},
	}, networks)
}

func TestParseDuplicateKeepsFirst(t *testing.T) {
	networks := scan.ParseNetworks("Cafe:20\nCafe:95\n")
	assert.Equal(t, []scan.Network{{SSID: "Cafe", Signal: 20}}, networks)
}

func TestParseMalformed(t *testing.T) {
	output := "no-separator\n:40\nWeak:abc\nLoud:250\nNegative:-5\r\n  \n"
	networks := scan.ParseNetworks(output)
	assert.Equal(t, []scan.Network{
		{SSID: "Loud", Signal: 100},
		{SSID: "Negative", Signal: 0},
	}, networks)
}

func TestParseEscapedSeparator(t *testing.T) {
	networks := scan.ParseNetworks(`my\:net:64` + "\n" + `back\\slash:12` + "\n")
	assert.Equal(t, []scan.Network{
		{SSID: "my:net", Signal: 64},
		{SSID: `back\slash`, Signal: 12},
	}, networks)
}

func TestParseEmpty(t *testing.T) {
	networks := scan.ParseNetworks("")
	assert.NotNil(t, networks)
	assert.Empty(t, networks)
}

func fakeCommand(t *testing.T, script string) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-nmcli")
	/* #nosec G306 */
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return []string{path}
}

func TestScanRunsCommand(t *testing.T) {
	logger, _ := logrusTest.NewNullLogger()
	scanner := &scan.Scanner{
		Command: fakeCommand(t, "#!/bin/sh\nprintf 'Office:40\\nHome:80\\n--:99\\n'\n"),
		Timeout: 5 * time.Second,
		Logger:  logger,
	}

	networks := scanner.Scan(context.Background())
	assert.Equal(t, []scan.Network{{SSID: "Home", Signal: 80}, {SSID: "Office", Signal: 40}}, networks)
}

func TestScanNonZeroExit(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	scanner := &scan.Scanner{
		Command: fakeCommand(t, "#!/bin/sh\necho 'Home:80'\necho 'radio off' >&2\nexit 8\n"),
		Timeout: 5 * time.Second,
		Logger:  logger,
	}

	networks := scanner.Scan(context.Background())
	assert.NotNil(t, networks)
	assert.Empty(t, networks)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "radio off", hook.LastEntry().Data["stderr"])
}

func TestScanTimeout(t *testing.T) {
	logger, hook := logrusTest.NewNullLogger()
	scanner := &scan.Scanner{
		Command: fakeCommand(t, "#!/bin/sh\nexec sleep 5\n"),
		Timeout: 200 * time.Millisecond,
		Logger:  logger,
	}

	start := time.Now()
	networks := scanner.Scan(context.Background())
	assert.Empty(t, networks)
	assert.Less(t, time.Since(start), 4*time.Second)
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "deadline exceeded")
}

func TestScanMissingCommand(t *testing.T) {
	logger, _ := logrusTest.NewNullLogger()
	scanner := &scan.Scanner{
		Command: []string{filepath.Join(t.TempDir(), "does-not-exist")},
		Logger:  logger,
	}
	assert.Empty(t, scanner.Scan(context.Background()))

	scanner.Command = nil
	assert.Empty(t, scanner.Scan(context.Background()))
}
