package configinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configports "github.com/wdwxedit/plugdeploy/internal/core/ports/config"
)

// FileLoader reads a YAML or JSON config file (priority 3).
// With an explicit path the file must exist; otherwise the search paths are tried in order
// and a missing file simply contributes nothing.
type FileLoader struct {
	explicitPath string
	searchPaths  []string
	loadedFrom   string
}

func NewFileLoader(explicitPath string) *FileLoader {
	return &FileLoader{explicitPath: explicitPath, searchPaths: DefaultSearchPaths()}
}

// NewFileLoaderWithSearchPaths creates a loader with custom search paths
func NewFileLoaderWithSearchPaths(explicitPath string, searchPaths []string) *FileLoader {
	return &FileLoader{explicitPath: explicitPath, searchPaths: searchPaths}
}

// DefaultSearchPaths returns the config file locations tried when --config is not given
func DefaultSearchPaths() []string {
	workDir, _ := os.Getwd()
	homeDir, _ := os.UserHomeDir()
	return []string{
		filepath.Join(workDir, "plugdeploy.yaml"),
		filepath.Join(workDir, "plugdeploy.yml"),
		filepath.Join(workDir, "plugdeploy.json"),
		filepath.Join(homeDir, ".config", "plugdeploy", "config.yaml"),
		filepath.Join(homeDir, ".config", "plugdeploy", "config.json"),
	}
}

func (l *FileLoader) Name() string { return "file" }

// LoadedFrom returns the file the last Load read, if any
func (l *FileLoader) LoadedFrom() string { return l.loadedFrom }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	l.loadedFrom = ""

	if l.explicitPath != "" {
		return l.loadFile(l.explicitPath)
	}

	for _, path := range l.searchPaths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to check config file %s: %w", path, err)
		}
		return l.loadFile(path)
	}

	return configdomain.Snapshot{}, nil
}

func (l *FileLoader) loadFile(path string) (configdomain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var kv map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &kv)
	default:
		err = yaml.Unmarshal(data, &kv)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	snap := make(configdomain.Snapshot)
	for _, field := range knownFields {
		if v, ok := kv[field]; ok && v != nil {
			snap[field] = configdomain.Entry{Key: field, Value: v, Source: "file", SourcePath: path, Priority: configdomain.PriorityFile}
		}
	}
	l.loadedFrom = path

	return snap, nil
}

var knownFields = []string{
	configdomain.FieldSourceDir,
	configdomain.FieldDestDir,
	configdomain.FieldBuildCommand,
	configdomain.FieldArtifacts,
	configdomain.FieldProcessName,
	configdomain.FieldExecutablePath,
	configdomain.FieldLaunchCommand,
	configdomain.FieldTerminateCommand,
	configdomain.FieldSettleInterval,
	configdomain.FieldBuildTimeout,
	configdomain.FieldRestart,
	configdomain.FieldSkipBuild,
	configdomain.FieldDebug,
}

var _ configports.Loader = (*FileLoader)(nil)
