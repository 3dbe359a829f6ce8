package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// pluginSource creates a source directory with every default artifact
func pluginSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	for _, name := range []string{"main.js", "manifest.json", "styles.css"} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte("// "+name), 0o644))
	}
	return src
}

func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugdeploy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	return path
}

func TestRoot_DeploySkipBuildNoRestart(t *testing.T) {
	src := pluginSource(t)
	dest := filepath.Join(t.TempDir(), "vault", "plugins", "demo")

	out, _, err := execute(t, "--config", emptyConfig(t), "--source", src, "--dest", dest, "--skip-build", "--no-restart")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "main.js"))
	assert.FileExists(t, filepath.Join(dest, "manifest.json"))
	assert.FileExists(t, filepath.Join(dest, "styles.css"))
	assert.Contains(t, out, "deploy completed")
}

func TestDeployCommand_MissingArtifactIsWarning(t *testing.T) {
	src := pluginSource(t)
	require.NoError(t, os.Remove(filepath.Join(src, "styles.css")))
	dest := filepath.Join(t.TempDir(), "plugin")

	out, errOut, err := execute(t, "deploy", "--config", emptyConfig(t), "--source", src, "--dest", dest, "--skip-build", "--no-restart")

	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "styles.css"))
	assert.Equal(t, 1, strings.Count(errOut, "styles.css"), "warning printed once:\n%s", errOut)
	assert.Contains(t, out, "deploy completed with 1 warning(s)")
}

func TestDeployCommand_BuildFailureExitsNonZero(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	src := pluginSource(t)
	dest := filepath.Join(t.TempDir(), "plugin")

	_, _, err := execute(t, "deploy", "--config", emptyConfig(t), "--source", src, "--dest", dest,
		"--build-command", "echo broken >&2; exit 3", "--no-restart")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeployFailed))
	assert.Contains(t, err.Error(), "build stage")
	entries, readErr := os.ReadDir(dest)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestDeployCommand_InvalidConfig(t *testing.T) {
	src := pluginSource(t)

	_, _, err := execute(t, "deploy", "--config", emptyConfig(t), "--source", src, "--dest", src, "--skip-build")

	var cfgErr *configdomain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestConfigShow_ReportsSources(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "plugdeploy.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("build_command: make plugin\n"), 0o644))
	t.Setenv("PLUGDEPLOY_SETTLE_INTERVAL", "5")
	dest := filepath.Join(t.TempDir(), "plugin")

	out, _, err := execute(t, "config", "show", "--config", cfgPath, "--dest", dest)

	require.NoError(t, err)
	assert.Contains(t, out, "make plugin")
	assert.Contains(t, out, "(file: "+cfgPath+")")
	assert.Contains(t, out, "(env: PLUGDEPLOY_SETTLE_INTERVAL)")
	assert.Contains(t, out, "(flag: --dest)")
	assert.Contains(t, out, "Configuration is valid")
}

func TestConfigPath_ExplicitFile(t *testing.T) {
	cfgPath := emptyConfig(t)

	out, _, err := execute(t, "config", "path", "--config", cfgPath)

	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)
}

func TestIconCommand(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "icon", "variants", "--config", emptyConfig(t), "--dir", dir)
	require.NoError(t, err)
	svg := filepath.Join(dir, "fish-symbol-256.svg")
	require.FileExists(t, svg)

	png := filepath.Join(dir, "fish-symbol.png")
	_, _, err = execute(t, "icon", "--config", emptyConfig(t), "--in", svg, "--out", png, "--size", "64")
	require.NoError(t, err)
	assert.FileExists(t, png)
}

func TestIconCommand_DebugFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "icon", "variants", "--config", emptyConfig(t), "--dir", dir)
	require.NoError(t, err)

	t.Setenv("PLUGDEPLOY_DEBUG", "true")
	out, _, err := execute(t, "icon", "--config", emptyConfig(t),
		"--in", filepath.Join(dir, "fish-symbol-256.svg"), "--out", filepath.Join(dir, "fish.png"), "--size", "32")

	require.NoError(t, err)
	assert.Contains(t, out, "[DEBUG] icon converted")
}

func TestContainerOptions_OnlyChangedFlags(t *testing.T) {
	cmd := NewRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--dest", "/tmp/x", "--no-restart"}))

	opts, err := containerOptions(cmd)

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		configdomain.FieldDestDir: "/tmp/x",
		configdomain.FieldRestart: false,
	}, opts.Overrides)
}
