package repositories

// Уровни журнала в порядке возрастания важности.
// Success пишется с уровнем info.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Logger журнал с printf-форматированием.
// Пакетная обработка пишет в него из нескольких воркеров одновременно,
// поэтому реализации должны быть безопасны для конкурентных вызовов.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	// Success итог операции, отображается отдельным цветом
	Success(format string, args ...interface{})
	Close() error
}
