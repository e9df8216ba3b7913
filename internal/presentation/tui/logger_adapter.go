package tui

import (
	"fmt"

	"shrinker/internal/domain/repositories"
)

// UILogger дублирует записи в основной логгер и в журнал на экране
type UILogger struct {
	next       repositories.Logger
	tuiManager *Manager
}

// NewUILogger создает новый UI логгер
func NewUILogger(next repositories.Logger, tuiManager *Manager) *UILogger {
	return &UILogger{
		next:       next,
		tuiManager: tuiManager,
	}
}

func (l *UILogger) emit(level string, write func(repositories.Logger), format string, args ...interface{}) {
	if l.next != nil {
		write(l.next)
	}
	if l.tuiManager != nil {
		l.tuiManager.AddLog(level, fmt.Sprintf(format, args...))
	}
}

// Debug логирует отладочное сообщение
func (l *UILogger) Debug(format string, args ...interface{}) {
	l.emit("DEBUG", func(n repositories.Logger) { n.Debug(format, args...) }, format, args...)
}

// Info логирует информационное сообщение
func (l *UILogger) Info(format string, args ...interface{}) {
	l.emit("INFO", func(n repositories.Logger) { n.Info(format, args...) }, format, args...)
}

// Warning логирует предупреждение
func (l *UILogger) Warning(format string, args ...interface{}) {
	l.emit("WARNING", func(n repositories.Logger) { n.Warning(format, args...) }, format, args...)
}

// Error логирует ошибку
func (l *UILogger) Error(format string, args ...interface{}) {
	l.emit("ERROR", func(n repositories.Logger) { n.Error(format, args...) }, format, args...)
}

// Success логирует успешное выполнение
func (l *UILogger) Success(format string, args ...interface{}) {
	l.emit("SUCCESS", func(n repositories.Logger) { n.Success(format, args...) }, format, args...)
}

// Close закрывает основной логгер
func (l *UILogger) Close() error {
	if l.next != nil {
		return l.next.Close()
	}
	return nil
}
