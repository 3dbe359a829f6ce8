package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// DeployOptions switch optional stages of a run
type DeployOptions struct {
	SkipBuild bool
	Restart   bool
}

// DeployService sequences ensure destination -> build -> install -> restart.
// Destination and build failures abort the run; everything after is best effort.
type DeployService struct {
	runner    deployports.CommandRunner
	installer deployports.Installer
	restarter deployports.ProcessRestarter
	profile   deploydomain.PlatformProfile
	logger    deployports.Logger
	options   DeployOptions
	now       func() time.Time
}

// NewDeployService creates a new deploy service
func NewDeployService(
	runner deployports.CommandRunner,
	installer deployports.Installer,
	restarter deployports.ProcessRestarter,
	profile deploydomain.PlatformProfile,
	logger deployports.Logger,
	options DeployOptions,
) *DeployService {
	return &DeployService{
		runner:    runner,
		installer: installer,
		restarter: restarter,
		profile:   profile,
		logger:    logger,
		options:   options,
		now:       time.Now,
	}
}

// Deploy runs one build-install-restart cycle
func (s *DeployService) Deploy(ctx context.Context, target deploydomain.BuildTarget, dest deploydomain.InstallDestination) *deploydomain.DeployResult {
	result := deploydomain.NewDeployResult(s.now())
	defer func() { result.Duration = s.now().Sub(result.StartedAt) }()

	s.logger.LogDebug("starting deploy run", map[string]interface{}{
		"run_id":      result.RunID.String(),
		"source":      target.SourceDir,
		"destination": dest.Path,
		"os":          s.profile.OS,
	})
	s.logger.LogInfo(fmt.Sprintf("Plugin directory: %s", target.SourceDir), nil)
	s.logger.LogInfo(fmt.Sprintf("Destination directory: %s", dest.Path), nil)

	if err := s.installer.EnsureDestination(dest.Path); err != nil {
		s.logger.LogError(err, "Cannot create destination directory", nil)
		result.Fail(deploydomain.StageInstall, err)
		return result
	}

	if s.options.SkipBuild {
		s.logger.LogInfo("Skipping build", nil)
	} else {
		s.logger.LogSection("Building plugin")
		if err := s.runner.Run(ctx, target.BuildCommand, target.SourceDir); err != nil {
			s.logger.LogError(err, "Build failed", nil)
			result.Fail(deploydomain.StageBuild, fmt.Errorf("build failed: %w", err))
			return result
		}
		s.logger.LogSuccess("Build succeeded", nil)
	}

	s.logger.LogSection("Copying files to plugin directory")
	result.Install = s.installer.InstallArtifacts(ctx, target.SourceDir, dest.Path, target.Artifacts)
	result.AddWarnings(result.Install.Warnings()...)
	s.logger.LogInfo(fmt.Sprintf("Installed %d of %d files (%s)",
		len(result.Install.Copied), len(target.Artifacts), humanize.Bytes(uint64(result.Install.TotalBytes()))), nil)

	s.logger.LogSection("Deploy complete")

	if !s.options.Restart {
		s.logger.LogInfo(fmt.Sprintf("Restart disabled; reload %s to pick up the new build", s.profile.ProcessName), nil)
		return result
	}

	s.logger.LogSection(fmt.Sprintf("Restarting %s", s.profile.ProcessName))
	result.Restart = s.restarter.Restart(ctx, s.profile)
	if result.Restart != nil {
		result.AddWarnings(result.Restart.Warnings...)
	}

	return result
}
