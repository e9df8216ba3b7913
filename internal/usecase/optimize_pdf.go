package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// OptimizePDFUseCase структурная оптимизация PDF без перекодирования изображений
type OptimizePDFUseCase struct {
	optimizer repositories.PDFOptimizer
	fileRepo  repositories.FileRepository
	logger    repositories.Logger
}

// NewOptimizePDFUseCase создает сценарий оптимизации
func NewOptimizePDFUseCase(
	optimizer repositories.PDFOptimizer,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *OptimizePDFUseCase {
	return &OptimizePDFUseCase{
		optimizer: optimizer,
		fileRepo:  fileRepo,
		logger:    logger,
	}
}

// DefaultOptimizedPath путь результата по умолчанию: <base>_optimized.pdf
func DefaultOptimizedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_optimized.pdf"
}

// Execute оптимизирует inputPath в outputPath
func (uc *OptimizePDFUseCase) Execute(inputPath, outputPath string) (*entities.CompressionResult, error) {
	if !uc.fileRepo.FileExists(inputPath) {
		return nil, fmt.Errorf("%w: %s", entities.ErrFileNotFound, inputPath)
	}
	if outputPath == "" {
		outputPath = DefaultOptimizedPath(inputPath)
	}

	original, err := uc.fileRepo.GetFileInfo(inputPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	if err := uc.optimizer.Optimize(inputPath, outputPath); err != nil {
		_ = uc.fileRepo.Remove(outputPath)
		if uc.logger != nil {
			uc.logger.Error("Оптимизация %s не удалась: %v", filepath.Base(inputPath), err)
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrCompressionFailed, err)
	}

	optimized, err := uc.fileRepo.GetFileInfo(outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: выходной файл не создан: %v", entities.ErrCompressionFailed, err)
	}

	result := &entities.CompressionResult{
		CurrentFile:    inputPath,
		OutputFile:     outputPath,
		OriginalSize:   original.Size,
		CompressedSize: optimized.Size,
		Success:        true,
	}
	result.CalculateCompressionRatio()

	if uc.logger != nil {
		uc.logger.Success("✓ %s оптимизирован: %d страниц, %.1f%%", filepath.Base(inputPath), optimized.Pages, result.CompressionRatio)
	}

	return result, nil
}
