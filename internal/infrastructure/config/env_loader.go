package configinfra

import (
	"context"
	"os"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configports "github.com/wdwxedit/plugdeploy/internal/core/ports/config"
)

// EnvPrefix is the prefix of every environment variable the tool reads
const EnvPrefix = "PLUGDEPLOY_"

var envMappings = map[string]string{
	EnvPrefix + "SOURCE_DIR":        configdomain.FieldSourceDir,
	EnvPrefix + "DEST_DIR":          configdomain.FieldDestDir,
	EnvPrefix + "BUILD_COMMAND":     configdomain.FieldBuildCommand,
	EnvPrefix + "ARTIFACTS":         configdomain.FieldArtifacts,
	EnvPrefix + "PROCESS_NAME":      configdomain.FieldProcessName,
	EnvPrefix + "EXECUTABLE":        configdomain.FieldExecutablePath,
	EnvPrefix + "LAUNCH_COMMAND":    configdomain.FieldLaunchCommand,
	EnvPrefix + "TERMINATE_COMMAND": configdomain.FieldTerminateCommand,
	EnvPrefix + "SETTLE_INTERVAL":   configdomain.FieldSettleInterval,
	EnvPrefix + "BUILD_TIMEOUT":     configdomain.FieldBuildTimeout,
	EnvPrefix + "RESTART":           configdomain.FieldRestart,
	EnvPrefix + "SKIP_BUILD":        configdomain.FieldSkipBuild,
	EnvPrefix + "DEBUG":             configdomain.FieldDebug,
}

type EnvLoader struct {
	getenv func(string) string
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{getenv: os.Getenv} }

func (l *EnvLoader) Name() string { return "env" }

// Load builds a snapshot from PLUGDEPLOY_* environment variables (priority 2).
// Values stay strings here; the unified loader converts them.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for envVar, field := range envMappings {
		if v := l.getenv(envVar); v != "" {
			snap[field] = configdomain.Entry{Key: field, Value: v, Source: "env", SourcePath: envVar, Priority: configdomain.PriorityEnv}
		}
	}
	return snap, nil
}

var _ configports.Loader = (*EnvLoader)(nil)
