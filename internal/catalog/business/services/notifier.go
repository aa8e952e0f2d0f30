package services

import (
	"gomarketplace_admin/pkg/logger"
	"sync"
)

// Notifier показывает пользователю короткие сообщения. Вызов не блокирует
// и ничего не возвращает.
type Notifier interface {
	Error(message string)
	Success(message string)
}

type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Error(message string) {
	n.log.Log("ERROR: %s", message)
}

func (n *LogNotifier) Success(message string) {
	n.log.Log("OK: %s", message)
}

// Notification одно сообщение, сохранённое RecordingNotifier.
type Notification struct {
	Level   string
	Message string
}

// RecordingNotifier запоминает сообщения; используется CLI для итогового
// отчёта и тестами.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (r *RecordingNotifier) Error(message string) {
	r.add("error", message)
}

func (r *RecordingNotifier) Success(message string) {
	r.add("success", message)
}

func (r *RecordingNotifier) add(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Message: message})
}

func (r *RecordingNotifier) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

func (r *RecordingNotifier) Errors() []string {
	var out []string
	for _, n := range r.Notifications() {
		if n.Level == "error" {
			out = append(out, n.Message)
		}
	}
	return out
}

// MultiNotifier рассылает сообщения нескольким получателям.
type MultiNotifier []Notifier

func (m MultiNotifier) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}

func (m MultiNotifier) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}
