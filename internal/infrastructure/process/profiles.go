package process

import (
	"runtime"
	"sort"
	"strings"
	"sync"

	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
)

// ProfileOptions are configured overrides applied on top of a platform's defaults.
// Zero values keep the default.
type ProfileOptions struct {
	ProcessName      string
	ExecutablePath   string
	LaunchCommand    []string
	TerminateCommand []string
}

// ProfileProvider builds the platform profile for one OS family
type ProfileProvider func(opts ProfileOptions) deploydomain.PlatformProfile

var (
	providersMu sync.RWMutex
	providers   = map[string]ProfileProvider{
		"windows": windowsProfile,
		"darwin":  darwinProfile,
	}
)

// RegisterProfile adds or replaces the provider for goos
func RegisterProfile(goos string, provider ProfileProvider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[goos] = provider
}

// RegisteredPlatforms returns the OS names with a dedicated provider
func RegisteredPlatforms() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectProfile returns the profile for goos. Systems without a dedicated provider
// get the generic unix profile.
func SelectProfile(goos string, opts ProfileOptions) deploydomain.PlatformProfile {
	providersMu.RLock()
	provider, ok := providers[goos]
	providersMu.RUnlock()
	if !ok {
		provider = unixProfile
	}

	profile := provider(opts)
	profile.OS = goos
	if len(opts.TerminateCommand) > 0 {
		profile.TerminateCommand = append([]string(nil), opts.TerminateCommand...)
	}
	return profile
}

// CurrentProfile selects the profile for the running system
func CurrentProfile(opts ProfileOptions) deploydomain.PlatformProfile {
	return SelectProfile(runtime.GOOS, opts)
}

// DefaultWindowsExecutable is where the host application is installed on the development machine.
const DefaultWindowsExecutable = `E:\Obsidian\obsidian.exe`

func windowsProfile(opts ProfileOptions) deploydomain.PlatformProfile {
	name := orDefault(opts.ProcessName, "obsidian.exe")
	if !strings.HasSuffix(strings.ToLower(name), ".exe") {
		name += ".exe"
	}

	profile := deploydomain.PlatformProfile{
		ProcessName:      name,
		Shell:            []string{"cmd", "/C"},
		TerminateCommand: []string{"taskkill", "/F", "/IM", name},
	}

	// Without an explicit command the executable path is launched directly.
	if len(opts.LaunchCommand) > 0 {
		profile.LaunchCommand = append([]string(nil), opts.LaunchCommand...)
		return profile
	}
	profile.LaunchPath = orDefault(opts.ExecutablePath, DefaultWindowsExecutable)
	return profile
}

// terminateByName matches the process name exactly. A full command line match (pkill -f)
// would also hit this tool whenever its own arguments mention the host application,
// e.g. a destination inside ".obsidian/plugins".
func terminateByName(name string) []string {
	return []string{"pkill", "-x", name}
}

func darwinProfile(opts ProfileOptions) deploydomain.PlatformProfile {
	name := orDefault(opts.ProcessName, "Obsidian")

	profile := deploydomain.PlatformProfile{
		ProcessName:      name,
		Shell:            []string{"sh", "-c"},
		TerminateCommand: terminateByName(name),
		LaunchCommand:    []string{"open", "-a", name},
	}
	applyLaunchOverrides(&profile, opts)
	return profile
}

func unixProfile(opts ProfileOptions) deploydomain.PlatformProfile {
	name := orDefault(opts.ProcessName, "obsidian")

	profile := deploydomain.PlatformProfile{
		ProcessName:      name,
		Shell:            []string{"sh", "-c"},
		TerminateCommand: terminateByName(name),
		LaunchCommand:    []string{name},
	}
	applyLaunchOverrides(&profile, opts)
	return profile
}

func applyLaunchOverrides(profile *deploydomain.PlatformProfile, opts ProfileOptions) {
	switch {
	case len(opts.LaunchCommand) > 0:
		profile.LaunchCommand = append([]string(nil), opts.LaunchCommand...)
	case opts.ExecutablePath != "":
		profile.LaunchPath = opts.ExecutablePath
		profile.LaunchCommand = nil
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
