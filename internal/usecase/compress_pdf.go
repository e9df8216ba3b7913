package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// CompressPDFUseCase сценарий сжатия одного PDF файла на одном пресете
type CompressPDFUseCase struct {
	compressor repositories.DocumentCompressor
	fileRepo   repositories.FileRepository
	configRepo repositories.ConfigRepository
}

// NewCompressPDFUseCase создает новый сценарий сжатия PDF
func NewCompressPDFUseCase(
	compressor repositories.DocumentCompressor,
	fileRepo repositories.FileRepository,
	configRepo repositories.ConfigRepository,
) *CompressPDFUseCase {
	return &CompressPDFUseCase{
		compressor: compressor,
		fileRepo:   fileRepo,
		configRepo: configRepo,
	}
}

// DefaultCompressedPath путь результата по умолчанию: <base>_compressed.pdf
func DefaultCompressedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_compressed.pdf"
}

// Execute выполняет сжатие PDF файла
func (uc *CompressPDFUseCase) Execute(inputPath string, outputPath string, preset entities.QualityPreset) (*entities.CompressionResult, error) {
	return uc.ExecuteWithDPI(inputPath, outputPath, preset, 0)
}

// ExecuteWithDPI сжатие с заданным разрешением изображений; 0 оставляет разрешение пресета
func (uc *CompressPDFUseCase) ExecuteWithDPI(inputPath string, outputPath string, preset entities.QualityPreset, dpi int) (*entities.CompressionResult, error) {
	if err := entities.ValidateImageDPI(dpi); err != nil {
		return nil, err
	}

	compressor := uc.compressor
	if dpi > 0 {
		adjuster, ok := compressor.(repositories.ImageDPIAdjuster)
		if !ok {
			return nil, fmt.Errorf("%w: движок не поддерживает выбор разрешения", entities.ErrInvalidImageDPI)
		}
		compressor = adjuster.WithImageDPI(dpi)
	}

	// Проверяем существование входного файла
	if !uc.fileRepo.FileExists(inputPath) {
		return nil, fmt.Errorf("%w: %s", entities.ErrFileNotFound, inputPath)
	}

	fileInfo, err := uc.fileRepo.GetFileInfo(inputPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	config, err := uc.configRepo.GetCompressionConfig(preset)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания конфигурации: %w", err)
	}
	if err := uc.configRepo.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	if outputPath == "" {
		outputPath = DefaultCompressedPath(inputPath)
	}

	if err := compressor.Compress(inputPath, outputPath, config.Preset); err != nil {
		_ = uc.fileRepo.Remove(outputPath)
		return nil, fmt.Errorf("ошибка сжатия файла: %w", err)
	}

	outInfo, err := uc.fileRepo.GetFileInfo(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: выходной файл не создан: %v", entities.ErrCompressionFailed, err)
	}

	result := &entities.CompressionResult{
		CurrentFile:    inputPath,
		OutputFile:     outputPath,
		Preset:         config.Preset,
		OriginalSize:   fileInfo.Size,
		CompressedSize: outInfo.Size,
		Success:        true,
	}
	result.CalculateCompressionRatio()

	return result, nil
}
