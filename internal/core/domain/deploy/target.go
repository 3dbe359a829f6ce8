package deploydomain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultArtifacts are the files a host-application plugin build leaves in its source directory.
var DefaultArtifacts = []string{"main.js", "manifest.json", "styles.css"}

// BuildTarget identifies what to build and which of its outputs get installed.
type BuildTarget struct {
	SourceDir    string
	BuildCommand string
	Artifacts    []string
}

// NewBuildTarget creates a build target. Artifact order is preserved.
func NewBuildTarget(sourceDir, buildCommand string, artifacts []string) (BuildTarget, error) {
	if strings.TrimSpace(sourceDir) == "" {
		return BuildTarget{}, fmt.Errorf("source directory cannot be empty")
	}
	if len(artifacts) == 0 {
		return BuildTarget{}, fmt.Errorf("at least one artifact name is required")
	}

	names := make([]string, len(artifacts))
	copy(names, artifacts)

	return BuildTarget{
		SourceDir:    filepath.Clean(sourceDir),
		BuildCommand: strings.TrimSpace(buildCommand),
		Artifacts:    names,
	}, nil
}

// InstallDestination is the host application's plugin slot.
type InstallDestination struct {
	Path string
}

// NewInstallDestination creates an install destination
func NewInstallDestination(path string) (InstallDestination, error) {
	if strings.TrimSpace(path) == "" {
		return InstallDestination{}, fmt.Errorf("destination directory cannot be empty")
	}
	return InstallDestination{Path: filepath.Clean(path)}, nil
}

func (d InstallDestination) String() string {
	return d.Path
}
