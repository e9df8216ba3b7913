package entities

import "errors"

// Доменные ошибки
var (
	ErrUnknownPreset        = errors.New("неизвестный пресет качества")
	ErrInvalidTargetSize    = errors.New("целевой размер должен быть больше нуля")
	ErrInvalidImageQuality  = errors.New("качество изображения должно быть от 1 до 100")
	ErrInvalidResizePercent = errors.New("процент масштабирования должен быть от 1 до 100")
	ErrInvalidJPEGQuality   = errors.New("качество JPEG должно быть от 1 до 100")
	ErrInvalidPNGQuality    = errors.New("качество PNG должно быть от 1 до 100")
	ErrInvalidMode          = errors.New("режим сжатия должен быть target или preset")
	ErrInvalidEngine        = errors.New("движок сжатия должен быть ghostscript или unipdf")
	ErrInvalidImageDPI      = errors.New("разрешение изображений должно быть от 0 до 2400 DPI")
	ErrFileNotFound         = errors.New("файл не найден")
	ErrInvalidFileFormat    = errors.New("неверный формат файла")
	ErrUnsupportedFormat    = errors.New("неподдерживаемый формат")
	ErrCompressionFailed    = errors.New("ошибка сжатия файла")
	ErrCompressorMissing    = errors.New("внешний компрессор не найден")
	ErrDirectoryNotFound    = errors.New("директория не найдена")
	ErrNoFilesFound         = errors.New("PDF файлы не найдены")
)
