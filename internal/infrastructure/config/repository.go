package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"shrinker/internal/domain/entities"
)

// DefaultPath файл конфигурации по умолчанию
const DefaultPath = "config.yaml"

// Repository реализация репозитория конфигурации
type Repository struct{}

// NewRepository создает новый репозиторий конфигурации
func NewRepository() *Repository {
	return &Repository{}
}

// Load загружает конфигурацию из файла.
// Отсутствующие в файле поля получают значения по умолчанию.
func (r *Repository) Load(configPath string) (*entities.Config, error) {
	config := Default()

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (r *Repository) Save(configPath string, config *entities.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Default создает конфигурацию по умолчанию
func Default() *entities.Config {
	return &entities.Config{
		Scanner: entities.ScannerConfig{
			SourceDirectory: "./pdfs",
			TargetDirectory: "./compressed",
			ReplaceOriginal: false,
		},
		Compression: entities.AppCompressionConfig{
			Engine:    entities.EngineGhostscript,
			Mode:      entities.ModeTarget,
			Preset:    string(entities.PresetEbook),
			TargetKB:  500,
			AutoStart: false,
		},
		Images: entities.ImageConfig{
			EnableJPEG:    false,
			EnablePNG:     false,
			Quality:       85,
			ResizePercent: 100,
			Background:    "#FFFFFF",
		},
		Processing: entities.ProcessingConfig{
			ParallelWorkers: 2,
			TimeoutSeconds:  0,
			RetryAttempts:   1,
		},
		Output: entities.OutputConfig{
			LogLevel:     "info",
			ProgressBar:  true,
			LogToFile:    true,
			LogFileName:  "shrinker.log",
			LogMaxSizeMB: 10,
		},
		Server: entities.ServerConfig{
			Port:          "8080",
			MaxFileSizeMB: 50,
			TempDir:       "./temp",
		},
	}
}
