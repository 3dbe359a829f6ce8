package logging

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// ConsoleLogger writes human-readable progress lines. Styling is dropped automatically
// when the writer is not a terminal.
type ConsoleLogger struct {
	out   io.Writer
	err   io.Writer
	debug bool
	mu    sync.Mutex

	section lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	output  lipgloss.Style
}

// NewConsoleLoggerWithWriters creates a console logger on the given writers
func NewConsoleLoggerWithWriters(out, errOut io.Writer, debug bool) *ConsoleLogger {
	outR := lipgloss.NewRenderer(out)
	errR := lipgloss.NewRenderer(errOut)

	return &ConsoleLogger{
		out:     out,
		err:     errOut,
		debug:   debug,
		section: outR.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginTop(1),
		info:    outR.NewStyle(),
		success: outR.NewStyle().Foreground(lipgloss.Color("10")),
		warning: errR.NewStyle().Foreground(lipgloss.Color("11")),
		failure: errR.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		muted:   outR.NewStyle().Faint(true),
		output:  outR.NewStyle().PaddingLeft(2),
	}
}

func (l *ConsoleLogger) LogSection(title string) {
	l.write(l.out, l.section.Render("=== "+title+" ==="))
}

func (l *ConsoleLogger) LogInfo(message string, fields map[string]interface{}) {
	l.write(l.out, l.info.Render(message)+l.renderFields(fields))
}

func (l *ConsoleLogger) LogSuccess(message string, fields map[string]interface{}) {
	l.write(l.out, l.success.Render("✓ "+message)+l.renderFields(fields))
}

func (l *ConsoleLogger) LogWarning(message string, fields map[string]interface{}) {
	l.write(l.err, l.warning.Render("⚠ "+message)+l.renderFields(fields))
}

func (l *ConsoleLogger) LogError(err error, message string, fields map[string]interface{}) {
	line := "✗ " + message
	if err != nil {
		line = fmt.Sprintf("✗ %s: %v", message, err)
	}
	l.write(l.err, l.failure.Render(line)+l.renderFields(fields))
}

func (l *ConsoleLogger) LogDebug(message string, fields map[string]interface{}) {
	if !l.debug {
		return
	}
	l.write(l.out, l.muted.Render("[DEBUG] "+message)+l.renderFields(fields))
}

// LogOutput prints captured process output under a label
func (l *ConsoleLogger) LogOutput(label, output string) {
	output = strings.TrimRight(output, "\r\n")
	if output == "" {
		return
	}
	l.write(l.out, l.muted.Render(label+":")+"\n"+l.output.Render(output))
}

func (l *ConsoleLogger) renderFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return " " + l.muted.Render("("+strings.Join(parts, " ")+")")
}

func (l *ConsoleLogger) write(w io.Writer, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(w, line)
}

var _ deployports.Logger = (*ConsoleLogger)(nil)
