package deploydomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage tags where a failure or warning originated
type Stage string

const (
	StageBuild   Stage = "build"
	StageInstall Stage = "install"
	StageRestart Stage = "restart"
)

// WarningKind classifies non-fatal conditions
type WarningKind string

const (
	WarningMissingArtifact WarningKind = "missing_artifact"
	WarningCopyFailed      WarningKind = "copy_failed"
	WarningRestart         WarningKind = "restart"
)

// Warning is a non-fatal condition collected during a run.
type Warning struct {
	Stage   Stage
	Kind    WarningKind
	Subject string
	Message string
}

func (w Warning) String() string {
	if w.Subject != "" {
		return fmt.Sprintf("[%s] %s: %s", w.Stage, w.Subject, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// CopiedArtifact records one installed file
type CopiedArtifact struct {
	Name  string
	Bytes int64
}

// ArtifactFailure records an artifact that existed but could not be copied
type ArtifactFailure struct {
	Name string
	Err  error
}

// InstallReport lists which artifacts were copied and which were not.
type InstallReport struct {
	Copied  []CopiedArtifact
	Missing []string
	Failed  []ArtifactFailure
}

// CopiedNames returns the names of copied artifacts in install order
func (r InstallReport) CopiedNames() []string {
	names := make([]string, 0, len(r.Copied))
	for _, c := range r.Copied {
		names = append(names, c.Name)
	}
	return names
}

// TotalBytes returns the number of bytes written to the destination
func (r InstallReport) TotalBytes() int64 {
	var total int64
	for _, c := range r.Copied {
		total += c.Bytes
	}
	return total
}

// Warnings converts missing and failed artifacts into install-stage warnings.
func (r InstallReport) Warnings() []Warning {
	var warnings []Warning
	for _, name := range r.Missing {
		warnings = append(warnings, Warning{
			Stage:   StageInstall,
			Kind:    WarningMissingArtifact,
			Subject: name,
			Message: "source file does not exist",
		})
	}
	for _, f := range r.Failed {
		warnings = append(warnings, Warning{
			Stage:   StageInstall,
			Kind:    WarningCopyFailed,
			Subject: f.Name,
			Message: f.Err.Error(),
		})
	}
	return warnings
}

// RestartState is a step of the restart sequence.
type RestartState string

const (
	RestartIdle        RestartState = "idle"
	RestartTerminating RestartState = "terminating"
	RestartSettling    RestartState = "settling"
	RestartLaunching   RestartState = "launching"
	RestartDone        RestartState = "done"
)

// RestartOutcome is the completed result of a restart. It never carries an error:
// problems are reported as warnings.
type RestartOutcome struct {
	State        RestartState
	Launched     bool
	LaunchTarget string
	Warnings     []Warning
}

// Warn appends a restart-stage warning
func (o *RestartOutcome) Warn(format string, args ...interface{}) {
	o.Warnings = append(o.Warnings, Warning{
		Stage:   StageRestart,
		Kind:    WarningRestart,
		Subject: o.LaunchTarget,
		Message: fmt.Sprintf(format, args...),
	})
}

// DeployResult is the outcome of one deploy run.
type DeployResult struct {
	RunID     uuid.UUID
	Success   bool
	Stage     Stage // set only when Success is false
	Err       error
	Warnings  []Warning
	Install   InstallReport
	Restart   *RestartOutcome
	StartedAt time.Time
	Duration  time.Duration
}

// NewDeployResult starts a result for a new run
func NewDeployResult(startedAt time.Time) *DeployResult {
	return &DeployResult{
		RunID:     uuid.New(),
		Success:   true,
		StartedAt: startedAt,
	}
}

// Fail marks the run as failed at the given stage
func (r *DeployResult) Fail(stage Stage, err error) {
	r.Success = false
	r.Stage = stage
	r.Err = err
}

// AddWarnings appends non-fatal warnings; they never change Success.
func (r *DeployResult) AddWarnings(warnings ...Warning) {
	r.Warnings = append(r.Warnings, warnings...)
}

// WarningsFor returns the warnings of a given kind
func (r *DeployResult) WarningsFor(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// Message returns a one-line summary of the run.
func (r *DeployResult) Message() string {
	if !r.Success {
		return fmt.Sprintf("deploy failed at %s stage: %v", r.Stage, r.Err)
	}
	if len(r.Warnings) > 0 {
		return fmt.Sprintf("deploy completed with %d warning(s)", len(r.Warnings))
	}
	return "deploy completed"
}
