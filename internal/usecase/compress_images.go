package usecases

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// CompressImageUseCase обрабатывает сжатие и конвертацию изображений
type CompressImageUseCase struct {
	logger     repositories.Logger
	compressor repositories.ImageCompressor
}

// NewCompressImageUseCase создает новый UseCase для сжатия изображений
func NewCompressImageUseCase(logger repositories.Logger, compressor repositories.ImageCompressor) *CompressImageUseCase {
	return &CompressImageUseCase{
		logger:     logger,
		compressor: compressor,
	}
}

// imageKind возвращает "jpeg", "png" или пустую строку по расширению
func imageKind(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	}
	return ""
}

// DefaultImageOutputPath путь результата по умолчанию: <base>_compressed<ext>
func DefaultImageOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_compressed" + ext
}

// CompressImage сжимает одно изображение. Форматы, отключенные в конфигурации, пропускаются.
func (uc *CompressImageUseCase) CompressImage(inputPath, outputPath string, config *entities.ImageConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	switch imageKind(inputPath) {
	case "jpeg":
		if !config.EnableJPEG {
			uc.logInfo("Пропуск JPEG файла (сжатие отключено): %s", inputPath)
			return nil
		}
	case "png":
		if !config.EnablePNG {
			uc.logInfo("Пропуск PNG файла (сжатие отключено): %s", inputPath)
			return nil
		}
	default:
		return fmt.Errorf("%w: %s", entities.ErrUnsupportedFormat, inputPath)
	}

	if outputPath == "" {
		outputPath = DefaultImageOutputPath(inputPath)
	}

	return uc.compressor.Compress(inputPath, outputPath, repositories.ImageOptions{
		Quality:       config.Quality,
		ResizePercent: config.ResizePercent,
		Background:    config.Background,
	})
}

// ConvertImage перекодирует изображение в формат, заданный расширением outputPath
func (uc *CompressImageUseCase) ConvertImage(inputPath, outputPath string) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrFileNotFound, inputPath)
	}
	if err := uc.compressor.Convert(inputPath, outputPath); err != nil {
		uc.logError("Ошибка конвертации %s: %v", inputPath, err)
		return err
	}
	uc.logSuccess("✓ %s → %s", filepath.Base(inputPath), filepath.Base(outputPath))
	return nil
}

// ProcessImagesInDirectory обрабатывает все изображения в директории
func (uc *CompressImageUseCase) ProcessImagesInDirectory(sourceDir, targetDir string, config *entities.ImageConfig, replaceOriginal bool) (*ProcessingResult, error) {
	result := &ProcessingResult{
		ProcessedFiles: make([]string, 0),
		FailedFiles:    make([]ProcessingError, 0),
	}

	if !config.EnableJPEG && !config.EnablePNG {
		uc.logInfo("Сжатие изображений отключено в конфигурации")
		return result, nil
	}

	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			uc.logError("Ошибка доступа к файлу %s: %v", path, err)
			return nil
		}
		if d.IsDir() || imageKind(path) == "" {
			return nil
		}

		result.TotalFiles++

		outputPath := path
		if !replaceOriginal {
			relPath, err := filepath.Rel(sourceDir, path)
			if err != nil {
				result.fail(path, err)
				uc.logError("Не удалось получить относительный путь для %s: %v", path, err)
				return nil
			}
			outputPath = filepath.Join(targetDir, relPath)

			outputDir := filepath.Dir(outputPath)
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				result.fail(path, err)
				uc.logError("Не удалось создать директорию %s: %v", outputDir, err)
				return nil
			}
		}

		uc.logInfo("Сжатие изображения: %s", path)
		if err := uc.CompressImage(path, outputPath, config); err != nil {
			result.fail(path, err)
			uc.logError("Ошибка сжатия изображения %s: %v", path, err)
			return nil
		}

		result.ProcessedFiles = append(result.ProcessedFiles, path)
		result.SuccessfulFiles++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("ошибка обхода директории %s: %w", sourceDir, err)
	}

	return result, nil
}

// ProcessingResult результат обработки изображений
type ProcessingResult struct {
	ProcessedFiles  []string
	FailedFiles     []ProcessingError
	SuccessfulFiles int
	TotalFiles      int
}

func (r *ProcessingResult) fail(path string, err error) {
	r.FailedFiles = append(r.FailedFiles, ProcessingError{FilePath: path, Error: err})
}

// ProcessingError ошибка обработки файла
type ProcessingError struct {
	FilePath string
	Error    error
}

// CountImageFiles подсчитывает количество изображений в директории
func CountImageFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && imageKind(path) != "" {
			count++
		}
		return nil
	})
	return count, err
}

func (uc *CompressImageUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *CompressImageUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *CompressImageUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
