package entities

// CompressionConfig параметры сжатия, соответствующие одному пресету
type CompressionConfig struct {
	Preset           QualityPreset
	ImageDPI         int    // Верхняя граница разрешения изображений (0 - без понижения)
	ImageQuality     int    // Качество изображений (10-100)
	CompressStreams  bool   // Сжимать потоки данных
	RemoveDuplicates bool   // Объединять дубликаты объектов
	EmbedFonts       bool   // Встраивать шрифты
	UniPDFLicenseKey string // Лицензионный ключ для UniPDF
}

// NewCompressionConfig создает конфигурацию сжатия для пресета
func NewCompressionConfig(preset QualityPreset) *CompressionConfig {
	return NewCompressionConfigWithLicense(preset, "")
}

// NewCompressionConfigWithLicense создает конфигурацию сжатия с лицензионным ключом.
// Неизвестный пресет трактуется как default.
func NewCompressionConfigWithLicense(preset QualityPreset, licenseKey string) *CompressionConfig {
	if !preset.IsValid() {
		preset = PresetDefault
	}

	config := &CompressionConfig{
		Preset:           preset,
		CompressStreams:  true,
		RemoveDuplicates: true,
		EmbedFonts:       true,
		UniPDFLicenseKey: licenseKey,
	}

	// Значения соответствуют разрешениям distiller-пресетов Ghostscript
	switch preset {
	case PresetScreen:
		config.ImageDPI = 72
		config.ImageQuality = 40
	case PresetEbook:
		config.ImageDPI = 150
		config.ImageQuality = 60
	case PresetPrinter:
		config.ImageDPI = 300
		config.ImageQuality = 80
	case PresetPrepress:
		config.ImageDPI = 300
		config.ImageQuality = 90
	default:
		config.ImageDPI = 0
		config.ImageQuality = 95
	}

	return config
}

// Validate проверяет корректность конфигурации
func (c *CompressionConfig) Validate() error {
	if !c.Preset.IsValid() {
		return ErrUnknownPreset
	}
	if c.ImageQuality < 10 || c.ImageQuality > 100 {
		return ErrInvalidImageQuality
	}
	return nil
}
