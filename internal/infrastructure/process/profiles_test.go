package process

import (
	"testing"

	"github.com/stretchr/testify/assert"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
)

func TestSelectProfile_Defaults(t *testing.T) {
	tests := []struct {
		goos        string
		processName string
		shell       []string
		terminate   []string
		launch      []string
		launchPath  string
	}{
		{
			goos:        "windows",
			processName: "obsidian.exe",
			shell:       []string{"cmd", "/C"},
			terminate:   []string{"taskkill", "/F", "/IM", "obsidian.exe"},
			launchPath:  DefaultWindowsExecutable,
		},
		{
			goos:        "darwin",
			processName: "Obsidian",
			shell:       []string{"sh", "-c"},
			terminate:   []string{"pkill", "-x", "Obsidian"},
			launch:      []string{"open", "-a", "Obsidian"},
		},
		{
			goos:        "linux",
			processName: "obsidian",
			shell:       []string{"sh", "-c"},
			terminate:   []string{"pkill", "-x", "obsidian"},
			launch:      []string{"obsidian"},
		},
		{
			goos:        "freebsd",
			processName: "obsidian",
			shell:       []string{"sh", "-c"},
			terminate:   []string{"pkill", "-x", "obsidian"},
			launch:      []string{"obsidian"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			p := SelectProfile(tt.goos, ProfileOptions{})
			assert.Equal(t, tt.goos, p.OS)
			assert.Equal(t, tt.processName, p.ProcessName)
			assert.Equal(t, tt.shell, p.Shell)
			assert.Equal(t, tt.terminate, p.TerminateCommand)
			assert.Equal(t, tt.launch, p.LaunchCommand)
			assert.Equal(t, tt.launchPath, p.LaunchPath)
		})
	}
}

func TestSelectProfile_Overrides(t *testing.T) {
	win := SelectProfile("windows", ProfileOptions{ProcessName: "Notes", ExecutablePath: `C:\Apps\notes.exe`})
	assert.Equal(t, "Notes.exe", win.ProcessName)
	assert.Equal(t, []string{"taskkill", "/F", "/IM", "Notes.exe"}, win.TerminateCommand)
	assert.Equal(t, `C:\Apps\notes.exe`, win.LaunchPath)

	mac := SelectProfile("darwin", ProfileOptions{ExecutablePath: "/Applications/Obsidian.app/Contents/MacOS/Obsidian"})
	assert.Empty(t, mac.LaunchCommand)
	assert.Equal(t, "/Applications/Obsidian.app/Contents/MacOS/Obsidian", mac.LaunchPath)

	linux := SelectProfile("linux", ProfileOptions{
		LaunchCommand:    []string{"flatpak", "run", "md.obsidian.Obsidian"},
		TerminateCommand: []string{"flatpak", "kill", "md.obsidian.Obsidian"},
	})
	assert.Equal(t, []string{"flatpak", "run", "md.obsidian.Obsidian"}, linux.LaunchCommand)
	assert.Equal(t, []string{"flatpak", "kill", "md.obsidian.Obsidian"}, linux.TerminateCommand)
	assert.Empty(t, linux.LaunchPath)
}

func TestRegisterProfile_IsAdditive(t *testing.T) {
	RegisterProfile("plan9", func(opts ProfileOptions) deploydomain.PlatformProfile {
		return deploydomain.PlatformProfile{ProcessName: "acme", Shell: []string{"rc", "-c"}}
	})
	t.Cleanup(func() {
		providersMu.Lock()
		delete(providers, "plan9")
		providersMu.Unlock()
	})

	p := SelectProfile("plan9", ProfileOptions{})
	assert.Equal(t, "acme", p.ProcessName)
	assert.Equal(t, "plan9", p.OS)
	assert.Contains(t, RegisteredPlatforms(), "plan9")

	// Existing platforms are untouched.
	assert.Equal(t, "obsidian", SelectProfile("linux", ProfileOptions{}).ProcessName)
}
