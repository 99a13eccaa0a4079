package status

import (
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Sink displays status text.
type Sink interface {
	Info(text string)
	Error(text string)
}

// ErrorMarkup wraps error text the way rich-text labels highlight it.
func ErrorMarkup(text string) string {
	return "<color=red>" + text + "</color>"
}

// Label holds the most recently displayed text.
type Label struct {
	l       sync.RWMutex
	text    string
	isError bool
}

func NewLabel() *Label {
	return &Label{}
}

func (l *Label) Info(text string) {
	l.l.Lock()
	defer l.l.Unlock()
	l.text = text
	l.isError = false
}

func (l *Label) Error(text string) {
	l.l.Lock()
	defer l.l.Unlock()
	l.text = ErrorMarkup(text)
	l.isError = true
}

// Text returns the label contents, including error markup.
func (l *Label) Text() string {
	l.l.RLock()
	defer l.l.RUnlock()
	return l.text
}

// IsError reports whether the last text was an error.
func (l *Label) IsError() bool {
	l.l.RLock()
	defer l.l.RUnlock()
	return l.isError
}

// LogSink writes status text to the structured log. Info text is logged at
// debug level since it repeats every frame.
type LogSink struct {
	Entry *log.Entry
}

func NewLogSink(component string) *LogSink {
	return &LogSink{Entry: log.WithField("component", component)}
}

func (s *LogSink) Info(text string) {
	s.Entry.Debug(strings.TrimRight(text, "\n"))
}

func (s *LogSink) Error(text string) {
	s.Entry.Error(strings.TrimRight(text, "\n"))
}

// MultiSink forwards text to every sink in order.
type MultiSink []Sink

func (m MultiSink) Info(text string) {
	for _, s := range m {
		s.Info(text)
	}
}

func (m MultiSink) Error(text string) {
	for _, s := range m {
		s.Error(text)
	}
}
