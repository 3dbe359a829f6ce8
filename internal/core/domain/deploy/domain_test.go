package deploydomain

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewBuildTarget_ValidatesInput(t *testing.T) {
	tests := []struct {
		name        string
		sourceDir   string
		artifacts   []string
		expectError bool
	}{
		{name: "Valid_ShouldSucceed", sourceDir: "/src/plugin", artifacts: DefaultArtifacts},
		{name: "EmptySource_ShouldFail", sourceDir: "  ", artifacts: DefaultArtifacts, expectError: true},
		{name: "NoArtifacts_ShouldFail", sourceDir: "/src/plugin", artifacts: nil, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := NewBuildTarget(tt.sourceDir, " npm run build ", tt.artifacts)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.sourceDir), target.SourceDir)
			assert.Equal(t, "npm run build", target.BuildCommand)
			assert.Equal(t, tt.artifacts, target.Artifacts)
		})
	}
}

func TestNewBuildTarget_CopiesArtifacts(t *testing.T) {
	names := []string{"a.js", "b.css"}
	target, err := NewBuildTarget("/src", "", names)
	require.NoError(t, err)

	names[0] = "changed"
	assert.Equal(t, "a.js", target.Artifacts[0])
}

func TestNewInstallDestination(t *testing.T) {
	_, err := NewInstallDestination("")
	assert.Error(t, err)

	dest, err := NewInstallDestination("/vault/.obsidian/plugins/x/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/vault/.obsidian/plugins/x"), dest.String())
}

func TestPlatformProfile_ShellCommandAndLaunchTarget(t *testing.T) {
	p := PlatformProfile{
		Shell:         []string{"sh", "-c"},
		LaunchCommand: []string{"open", "-a", "Obsidian"},
	}

	assert.Equal(t, []string{"sh", "-c", "npm run build"}, p.ShellCommand("npm run build"))
	assert.Equal(t, "open -a Obsidian", p.LaunchTarget())

	p.LaunchPath = `E:\Obsidian\obsidian.exe`
	assert.Equal(t, `E:\Obsidian\obsidian.exe`, p.LaunchTarget())
	assert.Len(t, p.Shell, 2, "ShellCommand must not grow the profile's shell slice")
}

func TestDeployResult_FailAndWarnings(t *testing.T) {
	result := NewDeployResult(time.Now())
	assert.True(t, result.Success)
	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, "deploy completed", result.Message())

	result.AddWarnings(Warning{Stage: StageRestart, Kind: WarningRestart, Message: "start it manually"})
	assert.True(t, result.Success, "warnings never flip success")
	assert.Contains(t, result.Message(), "1 warning")

	result.Fail(StageBuild, errors.New("boom"))
	assert.False(t, result.Success)
	assert.Equal(t, StageBuild, result.Stage)
	assert.Contains(t, result.Message(), "build stage")
}

func TestInstallReport_Warnings(t *testing.T) {
	report := InstallReport{
		Copied:  []CopiedArtifact{{Name: "main.js", Bytes: 10}, {Name: "manifest.json", Bytes: 5}},
		Missing: []string{"styles.css"},
		Failed:  []ArtifactFailure{{Name: "extra.js", Err: errors.New("read-only")}},
	}

	assert.Equal(t, []string{"main.js", "manifest.json"}, report.CopiedNames())
	assert.Equal(t, int64(15), report.TotalBytes())

	warnings := report.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, WarningMissingArtifact, warnings[0].Kind)
	assert.Equal(t, "styles.css", warnings[0].Subject)
	assert.Equal(t, WarningCopyFailed, warnings[1].Kind)
	assert.Equal(t, StageInstall, warnings[1].Stage)
}

func TestBuildError_Messages(t *testing.T) {
	exited := &BuildError{Command: "npm run build", Dir: "/src", ExitCode: 2, Stdout: "out", Stderr: "err"}
	assert.Contains(t, exited.Error(), "exit code 2")
	assert.Equal(t, "out\nerr", exited.Output())

	cause := errors.New("executable file not found")
	notStarted := &BuildError{Command: "npm run build", Dir: "/src", ExitCode: -1, Err: cause}
	assert.Contains(t, notStarted.Error(), "could not run")
	assert.ErrorIs(t, notStarted, cause)

	dirErr := &DirectoryCreationError{Path: "/x", PermissionDenied: true, Err: cause}
	assert.Contains(t, dirErr.Error(), "permission denied")
	assert.ErrorIs(t, dirErr, cause)
}

func TestProperty_WarningsNeverChangeSuccess(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		result := NewDeployResult(time.Now())
		kinds := []WarningKind{WarningMissingArtifact, WarningCopyFailed, WarningRestart}

		n := rapid.IntRange(0, 20).Draw(t, "warnings")
		for i := 0; i < n; i++ {
			result.AddWarnings(Warning{Kind: rapid.SampledFrom(kinds).Draw(t, "kind")})
		}

		if !result.Success {
			t.Fatalf("result failed after %d warnings", n)
		}
		total := len(result.WarningsFor(WarningMissingArtifact)) +
			len(result.WarningsFor(WarningCopyFailed)) +
			len(result.WarningsFor(WarningRestart))
		if total != n {
			t.Fatalf("expected %d warnings, got %d", n, total)
		}
	})
}
