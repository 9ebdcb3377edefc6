package matcher

// Reporter receives the user-facing status messages produced by a Matcher.
// The CLI prints them, the chat page appends them to its transcript and the
// HTTP API returns them alongside results.
type Reporter interface {
	Success(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Level is the severity of a Notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single reported message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Recorder is a Reporter that keeps every notice in order.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Info(msg string)    { r.add(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)    { r.add(LevelWarn, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.Notices = append(r.Notices, Notice{Level: level, Message: msg})
}

// Has reports whether a notice of the given level was recorded.
func (r *Recorder) Has(level Level) bool {
	for _, n := range r.Notices {
		if n.Level == level {
			return true
		}
	}
	return false
}

// Reset drops all recorded notices.
func (r *Recorder) Reset() {
	r.Notices = nil
}

type discard struct{}

func (discard) Success(string) {}
func (discard) Info(string)    {}
func (discard) Warn(string)    {}
func (discard) Error(string)   {}
