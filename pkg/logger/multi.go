package logger

// Multi fans every entry out to several loggers.
type Multi []Logger

func NewMulti(loggers ...Logger) Logger {
	if len(loggers) == 1 {
		return loggers[0]
	}
	return Multi(loggers)
}

func (m Multi) Info(msg string, fields Fields) {
	for _, l := range m {
		l.Info(msg, fields)
	}
}

func (m Multi) Warn(msg string, fields Fields) {
	for _, l := range m {
		l.Warn(msg, fields)
	}
}

func (m Multi) Error(msg string, err error, fields Fields) {
	for _, l := range m {
		l.Error(msg, err, fields)
	}
}

func (m Multi) Debug(msg string, fields Fields) {
	for _, l := range m {
		l.Debug(msg, fields)
	}
}

func (m Multi) WithFields(fields Fields) Logger {
	enriched := make(Multi, 0, len(m))
	for _, l := range m {
		enriched = append(enriched, l.WithFields(fields))
	}
	return enriched
}

// Nop discards everything.
type Nop struct{}

func (Nop) Info(string, Fields)         {}
func (Nop) Warn(string, Fields)         {}
func (Nop) Error(string, error, Fields) {}
func (Nop) Debug(string, Fields)        {}
func (n Nop) WithFields(Fields) Logger  { return n }
