package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"shrinker/internal/domain/repositories"
)

// FileLogger реализация логгера в файл или произвольный поток
type FileLogger struct {
	file     *os.File
	logger   *log.Logger
	logLevel string
}

// NewFileLogger создает новый файловый логгер.
// Если файл больше maxSizeMB, он переименовывается в <name>.1 перед открытием.
func NewFileLogger(filename, logLevel string, maxSizeMB int, logToFile bool) (*FileLogger, error) {
	if !logToFile {
		return nil, nil
	}

	if err := rotate(filename, maxSizeMB); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	return &FileLogger{
		file:     file,
		logger:   log.New(file, "", log.LstdFlags),
		logLevel: strings.ToLower(logLevel),
	}, nil
}

// NewConsoleLogger создает логгер, пишущий в поток (обычно os.Stderr)
func NewConsoleLogger(w io.Writer, logLevel string) *FileLogger {
	return &FileLogger{
		logger:   log.New(w, "", log.Ltime),
		logLevel: strings.ToLower(logLevel),
	}
}

// rotate переносит переполненный лог в резервную копию
func rotate(filename string, maxSizeMB int) error {
	if maxSizeMB <= 0 {
		return nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return nil
	}

	if info.Size() < int64(maxSizeMB)*1024*1024 {
		return nil
	}

	if err := os.Rename(filename, filename+".1"); err != nil {
		return fmt.Errorf("не удалось ротировать лог %s: %w", filename, err)
	}
	return nil
}

// Debug логирует отладочное сообщение
func (l *FileLogger) Debug(format string, args ...interface{}) {
	if l.shouldLog(repositories.LevelDebug) {
		l.writeLog("DEBUG", format, args...)
	}
}

// Info логирует информационное сообщение
func (l *FileLogger) Info(format string, args ...interface{}) {
	if l.shouldLog(repositories.LevelInfo) {
		l.writeLog("INFO", format, args...)
	}
}

// Warning логирует предупреждение
func (l *FileLogger) Warning(format string, args ...interface{}) {
	if l.shouldLog(repositories.LevelWarning) {
		l.writeLog("WARNING", format, args...)
	}
}

// Error логирует ошибку
func (l *FileLogger) Error(format string, args ...interface{}) {
	if l.shouldLog(repositories.LevelError) {
		l.writeLog("ERROR", format, args...)
	}
}

// Success логирует успешное выполнение
func (l *FileLogger) Success(format string, args ...interface{}) {
	if l.shouldLog(repositories.LevelInfo) {
		l.writeLog("SUCCESS", format, args...)
	}
}

// Close закрывает логгер
func (l *FileLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// writeLog записывает лог
func (l *FileLogger) writeLog(level, format string, args ...interface{}) {
	if l.logger == nil {
		return
	}

	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s", level, message)
}

var levelRank = map[string]int{
	repositories.LevelDebug:   0,
	repositories.LevelInfo:    1,
	repositories.LevelWarning: 2,
	repositories.LevelError:   3,
}

// shouldLog проверяет, нужно ли логировать на данном уровне.
// Неизвестный уровень в конфигурации трактуется как info.
func (l *FileLogger) shouldLog(level string) bool {
	currentLevel, ok := levelRank[l.logLevel]
	if !ok {
		currentLevel = levelRank[repositories.LevelInfo]
	}
	return levelRank[level] >= currentLevel
}

// MultiLogger отправляет каждое сообщение во все логгеры
type MultiLogger struct {
	mu      sync.Mutex
	loggers []repositories.Logger
}

// Multi объединяет логгеры, пропуская nil
func Multi(loggers ...repositories.Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l == nil {
			continue
		}
		if fl, ok := l.(*FileLogger); ok && fl == nil {
			continue
		}
		m.loggers = append(m.loggers, l)
	}
	return m
}

func (m *MultiLogger) each(fn func(repositories.Logger)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) Debug(format string, args ...interface{}) {
	m.each(func(l repositories.Logger) { l.Debug(format, args...) })
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(l repositories.Logger) { l.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(l repositories.Logger) { l.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(l repositories.Logger) { l.Error(format, args...) })
}

func (m *MultiLogger) Success(format string, args ...interface{}) {
	m.each(func(l repositories.Logger) { l.Success(format, args...) })
}

// Close закрывает все логгеры и возвращает первую ошибку
func (m *MultiLogger) Close() error {
	var first error
	m.each(func(l repositories.Logger) {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	})
	return first
}
