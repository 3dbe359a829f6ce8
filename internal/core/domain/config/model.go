package configdomain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priorities of the configuration sources (lower number indicates higher priority).
const (
	PriorityFlag    = 1
	PriorityEnv     = 2
	PriorityFile    = 3
	PriorityDefault = 4
)

// Field names recognized in every configuration source
const (
	FieldSourceDir        = "source_dir"
	FieldDestDir          = "dest_dir"
	FieldBuildCommand     = "build_command"
	FieldArtifacts        = "artifacts"
	FieldProcessName      = "process_name"
	FieldExecutablePath   = "executable_path"
	FieldLaunchCommand    = "launch_command"
	FieldTerminateCommand = "terminate_command"
	FieldSettleInterval   = "settle_interval"
	FieldBuildTimeout     = "build_timeout"
	FieldRestart          = "restart"
	FieldSkipBuild        = "skip_build"
	FieldDebug            = "debug"
)

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      interface{}
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by field name.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority <= existing.Priority {
			s[k] = e
		}
	}
}

// Keys returns the field names in sorted order
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeployConfig is the resolved configuration of one deploy run.
type DeployConfig struct {
	SourceDir        string        `config:"source_dir" validate:"required"`
	DestDir          string        `config:"dest_dir" validate:"required"`
	BuildCommand     string        `config:"build_command" validate:"required_unless=SkipBuild true"`
	Artifacts        []string      `config:"artifacts" validate:"required,min=1,dive,required,excludesall=/\\"`
	ProcessName      string        `config:"process_name"`
	ExecutablePath   string        `config:"executable_path"`
	LaunchCommand    []string      `config:"launch_command" validate:"omitempty,dive,required"`
	TerminateCommand []string      `config:"terminate_command" validate:"omitempty,dive,required"`
	SettleInterval   time.Duration `config:"settle_interval" validate:"min=0,max=1m"`
	BuildTimeout     time.Duration `config:"build_timeout" validate:"min=0"`
	Restart          bool          `config:"restart"`
	SkipBuild        bool          `config:"skip_build"`
	Debug            bool          `config:"debug"`
}

// ConfigError reports an invalid configuration
type ConfigError struct {
	Problems []string
	Err      error
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
