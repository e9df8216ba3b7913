package entities

import (
	"time"
)

// PDFDocument файл на диске; Pages равно 0, если PDF не удалось разобрать
type PDFDocument struct {
	Path         string
	Size         int64
	ModifiedTime time.Time
	Pages        int
}

// SizeKB размер в килобайтах с округлением вниз
func (d *PDFDocument) SizeKB() int64 {
	return d.Size / 1024
}

// CompressionResult итог обработки одного файла.
// Для пакетного режима WithinTarget показывает, уложился ли файл в целевой размер.
type CompressionResult struct {
	CurrentFile      string
	OutputFile       string
	Preset           QualityPreset
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
	SavedSpace       int64
	WithinTarget     bool
	Success          bool
	Error            error
}

// FailedResult результат для файла, который не удалось обработать
func FailedResult(inputFile string, originalSize int64, err error) *CompressionResult {
	return &CompressionResult{
		CurrentFile:  inputFile,
		OriginalSize: originalSize,
		Error:        err,
	}
}

// CalculateCompressionRatio пересчитывает процент сжатия и сэкономленное место.
// Отрицательные значения означают, что файл вырос.
func (cr *CompressionResult) CalculateCompressionRatio() {
	if cr.OriginalSize <= 0 {
		return
	}
	cr.SavedSpace = cr.OriginalSize - cr.CompressedSize
	cr.CompressionRatio = float64(cr.SavedSpace) / float64(cr.OriginalSize) * 100
}

// CompressedKB размер результата в килобайтах
func (cr *CompressionResult) CompressedKB() int64 {
	return cr.CompressedSize / 1024
}

// IsEffective файл обработан и стал меньше
func (cr *CompressionResult) IsEffective() bool {
	return cr.Success && cr.CompressionRatio > 0
}
