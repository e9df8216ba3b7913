package compressors

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUOptimizer структурная оптимизация PDF средствами PDFCPU:
// удаление дубликатов и неиспользуемых объектов без потери качества.
// По умолчанию также удаляются метаданные документа.
type PDFCPUOptimizer struct {
	keepMetadata bool
}

// NewPDFCPUOptimizer создает новый PDFCPU оптимизатор
func NewPDFCPUOptimizer() *PDFCPUOptimizer {
	return &PDFCPUOptimizer{}
}

// SetKeepMetadata отключает удаление метаданных
func (p *PDFCPUOptimizer) SetKeepMetadata(keep bool) {
	p.keepMetadata = keep
}

// Optimize оптимизирует inputPath и записывает результат в outputPath
func (p *PDFCPUOptimizer) Optimize(inputPath, outputPath string) error {
	ctx, err := api.ReadContextFile(inputPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения PDF: %w", err)
	}

	if !p.keepMetadata {
		stripMetadata(ctx)
	}

	if err := api.OptimizeContext(ctx); err != nil {
		return fmt.Errorf("ошибка оптимизации PDFCPU: %w", err)
	}

	if err := api.WriteContextFile(ctx, outputPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("ошибка записи PDF: %w", err)
	}
	return nil
}

// stripMetadata удаляет словарь Info и XMP-поток каталога.
// При записи PDFCPU создаст Info только с Producer и датами.
func stripMetadata(ctx *model.Context) {
	ctx.Info = nil
	if root, err := ctx.Catalog(); err == nil {
		root.Delete("Metadata")
	}
}

// PageCount возвращает количество страниц документа
func (p *PDFCPUOptimizer) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}
