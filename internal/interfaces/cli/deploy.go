package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
	"github.com/wdwxedit/plugdeploy/internal/interfaces/di"
)

// ErrDeployFailed is returned when the build or destination stage failed
var ErrDeployFailed = errors.New("deploy failed")

// NewDeployCommand creates the deploy command
func NewDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Build the plugin, install it and restart the host application",
		Long: `Run the full cycle: ensure the plugin directory exists, run the build
command in the source directory, copy the build artifacts and restart the host
application.

A failed build stops the run and exits non-zero. Missing artifacts and restart
problems are reported as warnings and do not change the exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd)
		},
	}
}

func runDeploy(cmd *cobra.Command) error {
	opts, err := containerOptions(cmd)
	if err != nil {
		return err
	}

	container, err := di.NewContainer(cmd.Context(), opts)
	if err != nil {
		return err
	}

	target, dest, err := container.Target()
	if err != nil {
		return err
	}

	result := container.DeployService.Deploy(cmd.Context(), target, dest)
	reportResult(container.Logger, result)

	if !result.Success {
		return fmt.Errorf("%w at %s stage: %v", ErrDeployFailed, result.Stage, result.Err)
	}
	return nil
}

// reportResult prints the closing summary. Warnings were already printed by the stage
// that raised them, so only their count appears here.
func reportResult(logger deployports.Logger, result *deploydomain.DeployResult) {
	fields := map[string]interface{}{
		"run_id":   result.RunID.String(),
		"duration": result.Duration.Round(time.Millisecond).String(),
	}
	if result.Success {
		logger.LogSuccess(result.Message(), fields)
		return
	}
	logger.LogError(result.Err, fmt.Sprintf("Deploy failed at %s stage", result.Stage), fields)
}
