package repositories

import (
	"shrinker/internal/domain/entities"
)

// ConfigRepository реализация репозитория конфигурации сжатия
type ConfigRepository struct {
	licenseKey string
}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository(licenseKey string) *ConfigRepository {
	return &ConfigRepository{licenseKey: licenseKey}
}

// GetCompressionConfig получает конфигурацию сжатия для пресета
func (r *ConfigRepository) GetCompressionConfig(preset entities.QualityPreset) (*entities.CompressionConfig, error) {
	if !preset.IsValid() {
		return nil, entities.ErrUnknownPreset
	}
	return entities.NewCompressionConfigWithLicense(preset, r.licenseKey), nil
}

// ValidateConfig валидирует конфигурацию
func (r *ConfigRepository) ValidateConfig(config *entities.CompressionConfig) error {
	return config.Validate()
}
