package compressors

import (
	"fmt"
	"os"
	"sync"

	"github.com/unidoc/unipdf/v3/common"
	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/model/optimize"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// UniPDFCompressor реализация компрессора с использованием UniPDF.
// Пресет переводится в верхнюю границу PPI и качество изображений.
type UniPDFCompressor struct {
	activation *uniPDFLicense
	imageDPI   int
}

// uniPDFLicense общее состояние активации для копий компрессора
type uniPDFLicense struct {
	key  string
	once sync.Once
	err  error
}

// NewUniPDFCompressor создает новый UniPDF компрессор
func NewUniPDFCompressor(licenseKey string) *UniPDFCompressor {
	if licenseKey == "" {
		licenseKey = os.Getenv("UNIDOC_LICENSE_API_KEY")
	}
	return &UniPDFCompressor{activation: &uniPDFLicense{key: licenseKey}}
}

// WithImageDPI копия компрессора с фиксированным разрешением изображений
func (u *UniPDFCompressor) WithImageDPI(dpi int) repositories.DocumentCompressor {
	return &UniPDFCompressor{activation: u.activation, imageDPI: max(dpi, 0)}
}

// activate устанавливает лицензию один раз на процесс
func (u *UniPDFCompressor) activate() error {
	l := u.activation
	l.once.Do(func() {
		common.SetLogger(common.NewConsoleLogger(common.LogLevelError))

		if l.key == "" {
			l.err = fmt.Errorf("UniPDF требует лицензионный ключ. Установите его в конфигурации или в переменной UNIDOC_LICENSE_API_KEY, либо используйте движок ghostscript")
			return
		}
		if err := license.SetMeteredKey(l.key); err != nil {
			l.err = fmt.Errorf("ошибка активации лицензии UniPDF: %w", err)
		}
	})
	return l.err
}

// Options возвращает параметры оптимизатора для пресета
func (u *UniPDFCompressor) Options(preset entities.QualityPreset) optimize.Options {
	config := entities.NewCompressionConfig(preset)
	if u.imageDPI > 0 {
		config.ImageDPI = u.imageDPI
	}
	return optimize.Options{
		CombineDuplicateDirectObjects:   config.RemoveDuplicates,
		CombineIdenticalIndirectObjects: config.RemoveDuplicates,
		CombineDuplicateStreams:         config.RemoveDuplicates,
		CompressStreams:                 config.CompressStreams,
		UseObjectStreams:                true,
		ImageUpperPPI:                   float64(config.ImageDPI),
		ImageQuality:                    config.ImageQuality,
	}
}

// Compress сжимает PDF файл используя UniPDF библиотеку
func (u *UniPDFCompressor) Compress(inputPath, outputPath string, preset entities.QualityPreset) error {
	if !preset.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrUnknownPreset, preset)
	}
	if err := u.activate(); err != nil {
		return err
	}

	// Открываем исходный PDF файл
	pdfReader, file, err := model.NewPdfReaderFromFile(inputPath, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	pdfWriter := model.NewPdfWriter()
	pdfWriter.SetOptimizer(optimize.New(u.Options(preset)))

	// Копируем страницы
	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return fmt.Errorf("ошибка получения количества страниц: %w", err)
	}

	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return fmt.Errorf("ошибка получения страницы %d: %w", i, err)
		}

		if err := pdfWriter.AddPage(page); err != nil {
			return fmt.Errorf("ошибка добавления страницы %d: %w", i, err)
		}
	}

	// Сохраняем оптимизированный файл
	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("ошибка создания выходного файла: %w", err)
	}

	if err := pdfWriter.Write(outputFile); err != nil {
		outputFile.Close()
		os.Remove(outputPath)
		return fmt.Errorf("ошибка записи файла: %w", err)
	}

	return outputFile.Close()
}
