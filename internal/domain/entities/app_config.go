package entities

import (
	"fmt"
	"time"
)

// Config представляет конфигурацию приложения
type Config struct {
	Scanner     ScannerConfig        `yaml:"scanner"`
	Compression AppCompressionConfig `yaml:"compression"`
	Images      ImageConfig          `yaml:"images"`
	Processing  ProcessingConfig     `yaml:"processing"`
	Output      OutputConfig         `yaml:"output"`
	Server      ServerConfig         `yaml:"server"`
}

// ScannerConfig настройки сканирования директорий
type ScannerConfig struct {
	SourceDirectory string `yaml:"source_directory"`
	TargetDirectory string `yaml:"target_directory"`
	ReplaceOriginal bool   `yaml:"replace_original"`
}

// Движки сжатия PDF
const (
	EngineGhostscript = "ghostscript"
	EngineUniPDF      = "unipdf"
)

// Режимы пакетной обработки PDF
const (
	ModeTarget = "target"
	ModePreset = "preset"
)

// AppCompressionConfig настройки сжатия PDF
type AppCompressionConfig struct {
	Engine           string `yaml:"engine"`
	Mode             string `yaml:"mode"`
	Preset           string `yaml:"preset"`
	TargetKB         int64  `yaml:"target_kb"`
	GhostscriptPath  string `yaml:"ghostscript_path"`
	UniPDFLicenseKey string `yaml:"unipdf_license_key"`
	ImageDPI         int    `yaml:"image_dpi"`     // 0 - разрешение задает пресет
	KeepMetadata     bool   `yaml:"keep_metadata"` // Не удалять метаданные при оптимизации
	AutoStart        bool   `yaml:"auto_start"`
}

// MaxImageDPI верхняя граница пользовательского разрешения изображений
const MaxImageDPI = 2400

// ValidateImageDPI проверяет пользовательское разрешение; 0 допустим
func ValidateImageDPI(dpi int) error {
	if dpi < 0 || dpi > MaxImageDPI {
		return fmt.Errorf("%w: %d", ErrInvalidImageDPI, dpi)
	}
	return nil
}

// ImageConfig настройки сжатия изображений
type ImageConfig struct {
	EnableJPEG    bool   `yaml:"enable_jpeg"`
	EnablePNG     bool   `yaml:"enable_png"`
	Quality       int    `yaml:"quality"`        // Качество 1-100
	ResizePercent int    `yaml:"resize_percent"` // 0 или 100 - без масштабирования
	Background    string `yaml:"background"`     // Цвет подложки для прозрачности, #RRGGBB
}

// ProcessingConfig настройки обработки
type ProcessingConfig struct {
	ParallelWorkers int `yaml:"parallel_workers"`
	TimeoutSeconds  int `yaml:"timeout_seconds"` // 0 - без ограничения на одну пробу
	RetryAttempts   int `yaml:"retry_attempts"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel     string `yaml:"log_level"`
	ProgressBar  bool   `yaml:"progress_bar"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
}

// ServerConfig настройки HTTP API
type ServerConfig struct {
	Port          string `yaml:"port"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
	TempDir       string `yaml:"temp_dir"`
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем файле
	CurrentFile     string
	CurrentFileSize int64

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int

	// Файлы, уложившиеся в целевой размер (режим target)
	WithinTargetFiles int

	// Прогресс
	Progress float64

	// Статистика сжатия
	TotalOriginalSize   int64
	TotalCompressedSize int64
	TotalSavedSpace     int64
	AverageCompression  float64

	// Текущий результат
	LastResult *CompressionResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseScanning
	PhaseCompressing
	PhaseReplacing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
)

// Validate проверяет корректность настроек сжатия PDF
func (c *AppCompressionConfig) Validate() error {
	switch c.Engine {
	case EngineGhostscript, EngineUniPDF:
	default:
		return ErrInvalidEngine
	}

	switch c.Mode {
	case ModeTarget:
		if c.TargetKB <= 0 {
			return ErrInvalidTargetSize
		}
	case ModePreset:
		if _, err := ParsePreset(c.Preset); err != nil {
			return err
		}
	default:
		return ErrInvalidMode
	}

	return ValidateImageDPI(c.ImageDPI)
}

// Validate проверяет корректность настроек изображений
func (c *ImageConfig) Validate() error {
	if c.EnableJPEG && (c.Quality < 1 || c.Quality > 100) {
		return ErrInvalidJPEGQuality
	}
	if c.EnablePNG && (c.Quality < 1 || c.Quality > 100) {
		return ErrInvalidPNGQuality
	}
	if c.ResizePercent < 0 || c.ResizePercent > 100 {
		return ErrInvalidResizePercent
	}
	return nil
}

// GetSupportedImageFormats возвращает список включенных форматов изображений
func (c *ImageConfig) GetSupportedImageFormats() []string {
	var formats []string
	if c.EnableJPEG {
		formats = append(formats, "JPEG")
	}
	if c.EnablePNG {
		formats = append(formats, "PNG")
	}
	return formats
}

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки файла
func (ps *ProcessingStatus) AddResult(result *CompressionResult) {
	ps.ProcessedFiles++
	ps.LastResult = result

	if result.Success && result.Error == nil {
		ps.SuccessfulFiles++
		if result.WithinTarget {
			ps.WithinTargetFiles++
		}
		ps.TotalOriginalSize += result.OriginalSize
		ps.TotalCompressedSize += result.CompressedSize
		ps.TotalSavedSpace += result.SavedSpace

		// Пересчитываем среднее сжатие
		if ps.TotalOriginalSize > 0 {
			ps.AverageCompression = ((float64(ps.TotalOriginalSize) - float64(ps.TotalCompressedSize)) / float64(ps.TotalOriginalSize)) * 100
		}
	} else {
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавливает текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// String возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseScanning:
		return "Сканирование файлов"
	case PhaseCompressing:
		return "Сжатие файлов"
	case PhaseReplacing:
		return "Замена оригиналов"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	duration := ps.ElapsedTime
	if duration < time.Second {
		return "< 1 сек"
	}
	return duration.Round(time.Second).String()
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	duration := ps.EstimatedTime
	if duration < time.Second {
		return "< 1 сек"
	}
	return duration.Round(time.Second).String()
}
