package configinfra

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
)

func envLoaderFrom(values map[string]string) *EnvLoader {
	return &EnvLoader{getenv: func(k string) string { return values[k] }}
}

func newTestLoader(t *testing.T, file string, env map[string]string, overrides map[string]interface{}) *UnifiedLoader {
	t.Helper()
	return NewUnifiedLoaderWith(NewConfigValidator(),
		NewDefaultsLoader(),
		NewFileLoaderWithSearchPaths(file, nil),
		envLoaderFrom(env),
		NewOverridesLoader(overrides),
	)
}

func TestUnifiedLoader_Defaults(t *testing.T) {
	cfg, snap, err := newTestLoader(t, "", nil, nil).Load(context.Background())
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, wd, cfg.SourceDir)
	assert.Equal(t, "npm run build", cfg.BuildCommand)
	assert.Equal(t, deploydomain.DefaultArtifacts, cfg.Artifacts)
	assert.Equal(t, 2*time.Second, cfg.SettleInterval)
	assert.Zero(t, cfg.BuildTimeout)
	assert.True(t, cfg.Restart)
	assert.False(t, cfg.SkipBuild)
	assert.NotContains(t, cfg.DestDir, "~", "home directory is expanded")
	assert.Equal(t, "default", snap[configdomain.FieldDestDir].Source)
}

func TestUnifiedLoader_Precedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plugdeploy.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
source_dir: /work/plugin
dest_dir: /vault/plugins/from-file
build_command: pnpm build
artifacts: [main.js, manifest.json]
settle_interval: 3
launch_command: flatpak run md.obsidian.Obsidian
`), 0o644))

	env := map[string]string{
		"PLUGDEPLOY_DEST_DIR":        "/vault/plugins/from-env",
		"PLUGDEPLOY_BUILD_COMMAND":   "yarn build",
		"PLUGDEPLOY_SETTLE_INTERVAL": "500ms",
	}
	overrides := map[string]interface{}{
		configdomain.FieldBuildCommand: "make plugin",
		configdomain.FieldRestart:      false,
	}

	cfg, snap, err := newTestLoader(t, file, env, overrides).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/work/plugin", cfg.SourceDir, "file beats defaults")
	assert.Equal(t, "/vault/plugins/from-env", cfg.DestDir, "env beats file")
	assert.Equal(t, "make plugin", cfg.BuildCommand, "flags beat env")
	assert.Equal(t, []string{"main.js", "manifest.json"}, cfg.Artifacts)
	assert.Equal(t, 500*time.Millisecond, cfg.SettleInterval)
	assert.Equal(t, []string{"flatpak", "run", "md.obsidian.Obsidian"}, cfg.LaunchCommand)
	assert.False(t, cfg.Restart)

	assert.Equal(t, "flag", snap[configdomain.FieldBuildCommand].Source)
	assert.Equal(t, "--build-command", snap[configdomain.FieldBuildCommand].SourcePath)
	assert.Equal(t, "--no-restart", snap[configdomain.FieldRestart].SourcePath)
	assert.Equal(t, "PLUGDEPLOY_DEST_DIR", snap[configdomain.FieldDestDir].SourcePath)
	assert.Equal(t, file, snap[configdomain.FieldSourceDir].SourcePath)
}

func TestUnifiedLoader_JSONFileAndEnvList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"dest_dir": "/vault/x", "build_timeout": "5m", "debug": true}`), 0o644))

	cfg, _, err := newTestLoader(t, file, map[string]string{"PLUGDEPLOY_ARTIFACTS": "main.js, styles.css"}, nil).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/vault/x", cfg.DestDir)
	assert.Equal(t, 5*time.Minute, cfg.BuildTimeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"main.js", "styles.css"}, cfg.Artifacts)
}

func TestUnifiedLoader_Errors(t *testing.T) {
	t.Run("ExplicitFileMissing", func(t *testing.T) {
		_, _, err := newTestLoader(t, filepath.Join(t.TempDir(), "missing.yaml"), nil, nil).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file configuration")
	})

	t.Run("MalformedFile", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(file, []byte("dest_dir: [unclosed"), 0o644))
		_, _, err := newTestLoader(t, file, nil, nil).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("WrongType", func(t *testing.T) {
		_, _, err := newTestLoader(t, "", map[string]string{"PLUGDEPLOY_RESTART": "maybe"}, nil).Load(context.Background())
		var cfgErr *configdomain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, cfgErr.Error(), "restart from env (PLUGDEPLOY_RESTART) must be a boolean")
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		overrides := map[string]interface{}{
			configdomain.FieldArtifacts:    []string{"main.js", "../escape.js"},
			configdomain.FieldBuildCommand: "",
		}
		_, _, err := newTestLoader(t, "", nil, overrides).Load(context.Background())
		var cfgErr *configdomain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Contains(t, cfgErr.Problems, "build_command is required unless skip_build is set")
		assert.Contains(t, cfgErr.Problems, `artifacts[1] must be a plain file name, got "../escape.js"`)
	})
}

func TestFileLoader_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(second, []byte("process_name: Obsidian\n"), 0o644))

	loader := NewFileLoaderWithSearchPaths("", []string{filepath.Join(dir, "first.yaml"), second})
	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Obsidian", snap[configdomain.FieldProcessName].Value)
	assert.Equal(t, second, loader.LoadedFrom())

	empty := NewFileLoaderWithSearchPaths("", []string{filepath.Join(dir, "none.yaml")})
	snap, err = empty.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
	assert.Empty(t, empty.LoadedFrom())
}

func TestConvert(t *testing.T) {
	d, ok := toDuration("1.5")
	assert.True(t, ok)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, ok = toDuration("soon")
	assert.False(t, ok)

	list, ok := toStringSlice([]interface{}{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)

	_, ok = toStringSlice([]interface{}{"a", 1})
	assert.False(t, ok)

	cmd, ok := toCommand([]interface{}{"open", "-a", "Obsidian"})
	assert.True(t, ok)
	assert.Equal(t, []string{"open", "-a", "Obsidian"}, cmd)
}
