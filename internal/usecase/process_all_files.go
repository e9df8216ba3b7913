package usecases

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// ErrNothingToProcess не выбрано ни одного типа файлов
var ErrNothingToProcess = errors.New("не выбрано ни одного типа файлов для обработки")

// ProcessAllFilesUseCase сценарий для обработки всех поддерживаемых типов файлов
type ProcessAllFilesUseCase struct {
	pdfProcessor   *ProcessPDFsUseCase
	imageProcessor *CompressImageUseCase
	logger         repositories.Logger
}

// NewProcessAllFilesUseCase создает новый сценарий обработки всех файлов
func NewProcessAllFilesUseCase(
	pdfProcessor *ProcessPDFsUseCase,
	imageProcessor *CompressImageUseCase,
	logger repositories.Logger,
) *ProcessAllFilesUseCase {
	return &ProcessAllFilesUseCase{
		pdfProcessor:   pdfProcessor,
		imageProcessor: imageProcessor,
		logger:         logger,
	}
}

// Execute выполняет обработку всех поддерживаемых файлов
func (uc *ProcessAllFilesUseCase) Execute(config *entities.Config) error {
	uc.logInfo("Начинаем обработку файлов")
	uc.logInfo("Исходная директория: %s", config.Scanner.SourceDirectory)

	processPDFs := uc.shouldProcessPDFs(config)
	processImages := uc.shouldProcessImages(config)

	if !processPDFs && !processImages {
		uc.logWarning("Не выбрано ни одного типа файлов для обработки")
		return ErrNothingToProcess
	}

	if processPDFs {
		if err := uc.pdfProcessor.Execute(config); err != nil {
			uc.logError("Ошибка обработки PDF файлов: %v", err)
			return fmt.Errorf("ошибка обработки PDF файлов: %w", err)
		}
	}

	if processImages {
		uc.logInfo("Обработка изображений...")
		result, err := uc.imageProcessor.ProcessImagesInDirectory(
			config.Scanner.SourceDirectory,
			config.Scanner.TargetDirectory,
			&config.Images,
			config.Scanner.ReplaceOriginal,
		)
		if err != nil {
			uc.logError("Ошибка обработки изображений: %v", err)
			return fmt.Errorf("ошибка обработки изображений: %w", err)
		}

		uc.logInfo("Обработка изображений завершена. Всего файлов: %d, Успешно: %d, Ошибок: %d",
			result.TotalFiles, result.SuccessfulFiles, len(result.FailedFiles))
		for _, failed := range result.FailedFiles {
			uc.logError("Не удалось обработать изображение %s: %v", failed.FilePath, failed.Error)
		}
	}

	uc.logInfo("Обработка всех файлов завершена")
	return nil
}

func (uc *ProcessAllFilesUseCase) shouldProcessPDFs(config *entities.Config) bool {
	return config.Compression.Engine != ""
}

func (uc *ProcessAllFilesUseCase) shouldProcessImages(config *entities.Config) bool {
	return config.Images.EnableJPEG || config.Images.EnablePNG
}

// GetSupportedFileTypes возвращает список обрабатываемых типов файлов
func (uc *ProcessAllFilesUseCase) GetSupportedFileTypes(config *entities.Config) []string {
	var types []string
	if uc.shouldProcessPDFs(config) {
		types = append(types, "PDF")
	}
	return append(types, config.Images.GetSupportedImageFormats()...)
}

// IsFileSupported проверяет, будет ли файл обработан при данной конфигурации
func (uc *ProcessAllFilesUseCase) IsFileSupported(filename string, config *entities.Config) bool {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return uc.shouldProcessPDFs(config)
	}

	switch imageKind(filename) {
	case "jpeg":
		return config.Images.EnableJPEG
	case "png":
		return config.Images.EnablePNG
	}
	return false
}

func (uc *ProcessAllFilesUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessAllFilesUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessAllFilesUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
