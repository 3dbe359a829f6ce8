package deploydomain

import "strings"

// PlatformProfile carries everything OS-specific about stopping and starting the host application.
// One profile is selected at start-up and is not modified afterwards.
type PlatformProfile struct {
	// OS is the GOOS value the profile was built for.
	OS string

	// ProcessName is the name used to find running instances of the host application.
	ProcessName string

	// Shell wraps the build command, e.g. ["sh", "-c"].
	Shell []string

	// TerminateCommand stops every running instance of the host application.
	TerminateCommand []string

	// LaunchCommand starts the host application. When LaunchPath is set it is the executable
	// and LaunchCommand holds only its arguments.
	LaunchCommand []string

	// LaunchPath is an absolute installation path that must exist before launching.
	LaunchPath string
}

// ShellCommand returns the argv that runs command through the profile's shell.
func (p PlatformProfile) ShellCommand(command string) []string {
	argv := make([]string, 0, len(p.Shell)+1)
	argv = append(argv, p.Shell...)
	return append(argv, command)
}

// LaunchTarget describes what will be launched, for display.
func (p PlatformProfile) LaunchTarget() string {
	if p.LaunchPath != "" {
		return p.LaunchPath
	}
	return strings.Join(p.LaunchCommand, " ")
}
