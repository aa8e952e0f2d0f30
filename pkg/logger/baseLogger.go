package logger

import (
	"fmt"
	"io"
	"log"
	"sync"
)

type BaseLogger struct {
	mu      sync.Mutex
	prefix  string
	writer  io.Writer
	console bool
}

// NewLogger пишет в writer и дублирует каждое сообщение в стандартный log.
func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		writer:  writer,
		prefix:  prefix,
		console: true,
	}
}

// NewSilentLogger пишет только в writer, без дублирования в консоль.
func NewSilentLogger(writer io.Writer, prefix string) *BaseLogger {
	return &BaseLogger{
		writer: writer,
		prefix: prefix,
	}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		message = l.prefix + " " + message
	}
	if l.writer != nil {
		fmt.Fprintln(l.writer, message)
	}
	if l.console {
		log.Print(message)
	}
}

func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := extraPrefix
	if l.prefix != "" {
		prefix = l.prefix + " " + extraPrefix
	}
	return &BaseLogger{
		writer:  l.writer,
		prefix:  prefix,
		console: l.console,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

func (l *BaseLogger) SetWriter(writer io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = writer
}
