package repositories

import (
	"shrinker/internal/domain/entities"
)

// DocumentCompressor внешняя операция сжатия одного файла на одном пресете.
// Успех означает nil-ошибку и существование outputPath после вызова.
type DocumentCompressor interface {
	Compress(inputPath, outputPath string, preset entities.QualityPreset) error
}

// ImageDPIAdjuster компрессор, у которого можно переопределить разрешение изображений.
// dpi <= 0 возвращает разрешение, заданное пресетом.
type ImageDPIAdjuster interface {
	WithImageDPI(dpi int) DocumentCompressor
}

// PDFOptimizer структурная оптимизация PDF без перерастеризации
type PDFOptimizer interface {
	Optimize(inputPath, outputPath string) error
	PageCount(path string) (int, error)
}

// ImageCompressor сжатие и конвертация изображений
type ImageCompressor interface {
	Compress(inputPath, outputPath string, options ImageOptions) error
	Convert(inputPath, outputPath string) error
}

// ImageOptions параметры сжатия изображения
type ImageOptions struct {
	Quality       int
	ResizePercent int
	Background    string
}

// FileRepository интерфейс для работы с файловой системой
type FileRepository interface {
	GetFileInfo(path string) (*entities.PDFDocument, error)
	FileExists(path string) bool
	SizeKB(path string) (int64, error)
	Move(src, dst string) error
	Remove(path string) error
	// TempPath возвращает свободное имя в dir по шаблону os.CreateTemp; файл не создается
	TempPath(dir, pattern string) (string, error)
	CreateDirectory(path string) error
	ListPDFFiles(directory string) ([]string, error)
}

// ConfigRepository интерфейс для работы с конфигурацией сжатия
type ConfigRepository interface {
	GetCompressionConfig(preset entities.QualityPreset) (*entities.CompressionConfig, error)
	ValidateConfig(config *entities.CompressionConfig) error
}
