package logging

import (
	"sync"

	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
)

// Level of a recorded entry
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSection Level = "section"
	LevelOutput  Level = "output"
)

// Entry is one recorded log call
type Entry struct {
	Level   Level
	Message string
	Err     error
	Fields  map[string]interface{}
}

// Recorder wraps another Logger and keeps every entry in memory.
// A nil base logger only records.
type Recorder struct {
	base    deployports.Logger
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates a recorder forwarding to base
func NewRecorder(base deployports.Logger) *Recorder {
	return &Recorder{base: base}
}

// Entries returns a copy of the recorded entries
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Messages returns messages recorded at level
func (r *Recorder) Messages(level Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func (r *Recorder) record(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

func (r *Recorder) LogInfo(message string, fields map[string]interface{}) {
	r.record(Entry{Level: LevelInfo, Message: message, Fields: fields})
	if r.base != nil {
		r.base.LogInfo(message, fields)
	}
}

func (r *Recorder) LogSuccess(message string, fields map[string]interface{}) {
	r.record(Entry{Level: LevelSuccess, Message: message, Fields: fields})
	if r.base != nil {
		r.base.LogSuccess(message, fields)
	}
}

func (r *Recorder) LogWarning(message string, fields map[string]interface{}) {
	r.record(Entry{Level: LevelWarning, Message: message, Fields: fields})
	if r.base != nil {
		r.base.LogWarning(message, fields)
	}
}

func (r *Recorder) LogError(err error, message string, fields map[string]interface{}) {
	r.record(Entry{Level: LevelError, Message: message, Err: err, Fields: fields})
	if r.base != nil {
		r.base.LogError(err, message, fields)
	}
}

func (r *Recorder) LogDebug(message string, fields map[string]interface{}) {
	r.record(Entry{Level: LevelDebug, Message: message, Fields: fields})
	if r.base != nil {
		r.base.LogDebug(message, fields)
	}
}

func (r *Recorder) LogSection(title string) {
	r.record(Entry{Level: LevelSection, Message: title})
	if r.base != nil {
		r.base.LogSection(title)
	}
}

func (r *Recorder) LogOutput(label, output string) {
	r.record(Entry{Level: LevelOutput, Message: label, Fields: map[string]interface{}{"output": output}})
	if r.base != nil {
		r.base.LogOutput(label, output)
	}
}

var _ deployports.Logger = (*Recorder)(nil)
