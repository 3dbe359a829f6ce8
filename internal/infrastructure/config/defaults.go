package configinfra

import (
	"context"
	"os"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	configports "github.com/wdwxedit/plugdeploy/internal/core/ports/config"
	"github.com/wdwxedit/plugdeploy/internal/infrastructure/process"
)

var (
	// DefaultDestDir is the plugin slot in the developer's vault. Overridden by ldflags.
	DefaultDestDir = "~/Documents/Obsidian Vault/.obsidian/plugins/wdwxedit-v3"

	// DefaultBuildCommand builds the plugin from its source directory
	DefaultBuildCommand = "npm run build"
)

// DefaultsLoader supplies the built-in values (priority 4)
type DefaultsLoader struct{}

func NewDefaultsLoader() *DefaultsLoader { return &DefaultsLoader{} }

func (l *DefaultsLoader) Name() string { return "default" }

func (l *DefaultsLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	snap := make(configdomain.Snapshot)
	add := func(field string, v interface{}) {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "default", SourcePath: "built-in", Priority: configdomain.PriorityDefault}
	}

	add(configdomain.FieldSourceDir, workDir)
	add(configdomain.FieldDestDir, DefaultDestDir)
	add(configdomain.FieldBuildCommand, DefaultBuildCommand)
	add(configdomain.FieldArtifacts, append([]string(nil), deploydomain.DefaultArtifacts...))
	add(configdomain.FieldSettleInterval, process.DefaultSettleInterval)
	add(configdomain.FieldBuildTimeout, 0)
	add(configdomain.FieldRestart, true)
	add(configdomain.FieldSkipBuild, false)
	add(configdomain.FieldDebug, false)

	return snap, nil
}

// FlagNames maps configuration fields onto the command line flags that set them.
// restart is set through the inverted --no-restart flag.
var FlagNames = map[string]string{
	configdomain.FieldSourceDir:      "source",
	configdomain.FieldDestDir:        "dest",
	configdomain.FieldBuildCommand:   "build-command",
	configdomain.FieldSkipBuild:      "skip-build",
	configdomain.FieldSettleInterval: "settle",
	configdomain.FieldDebug:          "debug",
}

// OverridesLoader turns explicitly set command line flags into entries (priority 1)
type OverridesLoader struct {
	values map[string]interface{}
}

func NewOverridesLoader(values map[string]interface{}) *OverridesLoader {
	return &OverridesLoader{values: values}
}

func (l *OverridesLoader) Name() string { return "flag" }

func (l *OverridesLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	for field, v := range l.values {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "flag", SourcePath: "--" + flagName(field), Priority: configdomain.PriorityFlag}
	}
	return snap, nil
}

func flagName(field string) string {
	if name, ok := FlagNames[field]; ok {
		return name
	}
	if field == configdomain.FieldRestart {
		return "no-restart"
	}
	out := []byte(field)
	for i, c := range out {
		if c == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}

var (
	_ configports.Loader = (*DefaultsLoader)(nil)
	_ configports.Loader = (*OverridesLoader)(nil)
)
