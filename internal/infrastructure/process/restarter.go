package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// DefaultSettleInterval is how long to wait after terminating the host application
// before launching it again.
const DefaultSettleInterval = 2 * time.Second

// Restarter terminates and relaunches the host application. It holds no OS-specific
// logic: everything platform dependent comes from the PlatformProfile.
type Restarter struct {
	launcher deployports.ProcessLauncher
	logger   deployports.Logger
	settle   time.Duration
	lookPath func(file string) (string, error)
	stat     func(name string) (os.FileInfo, error)
}

// RestarterOption configures a Restarter
type RestarterOption func(*Restarter)

// WithSettleInterval overrides DefaultSettleInterval
func WithSettleInterval(d time.Duration) RestarterOption {
	return func(r *Restarter) {
		if d >= 0 {
			r.settle = d
		}
	}
}

// WithLookPath replaces the PATH lookup used to resolve launch commands
func WithLookPath(fn func(string) (string, error)) RestarterOption {
	return func(r *Restarter) { r.lookPath = fn }
}

// WithStat replaces the existence check used for absolute launch paths
func WithStat(fn func(string) (os.FileInfo, error)) RestarterOption {
	return func(r *Restarter) { r.stat = fn }
}

// NewRestarter creates a new restarter
func NewRestarter(launcher deployports.ProcessLauncher, logger deployports.Logger, opts ...RestarterOption) *Restarter {
	r := &Restarter{
		launcher: launcher,
		logger:   logger,
		settle:   DefaultSettleInterval,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Restart runs terminate -> settle -> launch. It always returns a completed outcome.
// Each step is best effort: a step that panics is reported and the next one still runs.
func (r *Restarter) Restart(ctx context.Context, profile deploydomain.PlatformProfile) *deploydomain.RestartOutcome {
	outcome := &deploydomain.RestartOutcome{
		State:        deploydomain.RestartIdle,
		LaunchTarget: profile.LaunchTarget(),
	}

	r.step(profile, outcome, deploydomain.RestartTerminating, func() { r.terminate(ctx, profile, outcome) })
	r.step(profile, outcome, deploydomain.RestartSettling, func() { r.wait(ctx) })
	r.step(profile, outcome, deploydomain.RestartLaunching, func() { r.launch(profile, outcome) })

	outcome.State = deploydomain.RestartDone
	r.report(profile, outcome)
	return outcome
}

func (r *Restarter) step(profile deploydomain.PlatformProfile, outcome *deploydomain.RestartOutcome, state deploydomain.RestartState, fn func()) {
	outcome.State = state
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if state == deploydomain.RestartLaunching {
			outcome.Launched = false
			outcome.Warn("restart of %s failed during %s: %v; please start it manually", profile.ProcessName, state, rec)
			return
		}
		outcome.Warn("restart of %s failed during %s: %v", profile.ProcessName, state, rec)
	}()
	fn()
}

// terminate is fire-and-forget: a non-zero exit usually means nothing was running.
func (r *Restarter) terminate(ctx context.Context, profile deploydomain.PlatformProfile, outcome *deploydomain.RestartOutcome) {
	if len(profile.TerminateCommand) == 0 {
		r.logger.LogDebug("no terminate command configured", map[string]interface{}{"os": profile.OS})
		return
	}

	r.logger.LogInfo(fmt.Sprintf("Stopping %s...", profile.ProcessName), nil)

	argv := profile.TerminateCommand
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := r.launcher.Run(cmd)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		r.logger.LogDebug("terminate command succeeded", map[string]interface{}{"output": strings.TrimSpace(output.String())})
	case errors.As(err, &exitErr):
		r.logger.LogDebug("terminate command found nothing to stop", map[string]interface{}{"exit_code": exitErr.ExitCode()})
	default:
		outcome.Warn("could not stop %s: %v", profile.ProcessName, err)
	}
}

func (r *Restarter) wait(ctx context.Context) {
	if r.settle <= 0 {
		return
	}

	timer := time.NewTimer(r.settle)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (r *Restarter) launch(profile deploydomain.PlatformProfile, outcome *deploydomain.RestartOutcome) {
	argv, err := r.resolveLaunch(profile)
	if err != nil {
		outcome.Warn("%v; please start %s manually", err, profile.ProcessName)
		return
	}

	r.logger.LogInfo(fmt.Sprintf("Starting %s...", profile.ProcessName), nil)

	// Not bound to ctx: the relaunched application must outlive this run.
	cmd := exec.Command(argv[0], argv[1:]...)
	detach(cmd)

	if err := r.launcher.Start(cmd); err != nil {
		outcome.Warn("could not start %s: %v; please start it manually", profile.ProcessName, err)
		return
	}
	outcome.Launched = true
}

func (r *Restarter) resolveLaunch(profile deploydomain.PlatformProfile) ([]string, error) {
	if profile.LaunchPath != "" {
		if _, err := r.stat(profile.LaunchPath); err != nil {
			return nil, fmt.Errorf("%s not found", profile.LaunchPath)
		}
		return append([]string{profile.LaunchPath}, profile.LaunchCommand...), nil
	}

	if len(profile.LaunchCommand) == 0 {
		return nil, errors.New("no launch command configured")
	}

	path, err := r.lookPath(profile.LaunchCommand[0])
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH", profile.LaunchCommand[0])
	}
	return append([]string{path}, profile.LaunchCommand[1:]...), nil
}

func (r *Restarter) report(profile deploydomain.PlatformProfile, outcome *deploydomain.RestartOutcome) {
	for _, w := range outcome.Warnings {
		r.logger.LogWarning(w.Message, nil)
	}
	if outcome.Launched {
		r.logger.LogSuccess(fmt.Sprintf("%s restarted", profile.ProcessName), nil)
	}
}

var _ deployports.ProcessRestarter = (*Restarter)(nil)
