package usecases

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// ProcessPDFsUseCase сценарий пакетной обработки PDF файлов директории
type ProcessPDFsUseCase struct {
	compressor       repositories.DocumentCompressor
	fileRepo         repositories.FileRepository
	configRepo       repositories.ConfigRepository
	logger           repositories.Logger
	progressReporter func(entities.ProcessingStatus)
	probeReporter    func(entities.ProbeEvent)
	retryDelay       time.Duration
}

// NewProcessPDFsUseCase создает новый сценарий обработки PDF
func NewProcessPDFsUseCase(
	compressor repositories.DocumentCompressor,
	fileRepo repositories.FileRepository,
	configRepo repositories.ConfigRepository,
	logger repositories.Logger,
) *ProcessPDFsUseCase {
	return &ProcessPDFsUseCase{
		compressor: compressor,
		fileRepo:   fileRepo,
		configRepo: configRepo,
		logger:     logger,
		retryDelay: 2 * time.Second,
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessPDFsUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// SetProbeReporter устанавливает функцию для событий проб в режиме target.
// Вызывается из нескольких воркеров одновременно.
func (uc *ProcessPDFsUseCase) SetProbeReporter(reporter func(entities.ProbeEvent)) {
	uc.probeReporter = reporter
}

// SetRetryDelay задает паузу между повторными попытками
func (uc *ProcessPDFsUseCase) SetRetryDelay(delay time.Duration) {
	uc.retryDelay = delay
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessPDFsUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute выполняет пакетную обработку PDF файлов согласно конфигурации
func (uc *ProcessPDFsUseCase) Execute(config *entities.Config) error {
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Начало обработки PDF файлов")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Исходная директория: %s", config.Scanner.SourceDirectory)
	if config.Scanner.ReplaceOriginal {
		uc.logInfo("║ Режим: Замена оригинальных файлов")
	} else {
		uc.logInfo("║ Целевая директория: %s", config.Scanner.TargetDirectory)
	}
	uc.logInfo("║ Движок: %s", config.Compression.Engine)
	if config.Compression.Mode == entities.ModeTarget {
		uc.logInfo("║ Целевой размер: %d KB", config.Compression.TargetKB)
	} else {
		uc.logInfo("║ Пресет: %s", config.Compression.Preset)
	}
	uc.logInfo("║ Параллельных воркеров: %d", config.Processing.ParallelWorkers)
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	if err := config.Compression.Validate(); err != nil {
		err = fmt.Errorf("ошибка валидации конфигурации сжатия: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	var compressionConfig *entities.CompressionConfig
	if config.Compression.Mode == entities.ModePreset {
		preset, _ := entities.ParsePreset(config.Compression.Preset)
		cfg, err := uc.configRepo.GetCompressionConfig(preset)
		if err == nil {
			err = uc.configRepo.ValidateConfig(cfg)
		}
		if err != nil {
			err = fmt.Errorf("ошибка валидации конфигурации сжатия: %w", err)
			status.Fail(err)
			uc.reportProgress(status)
			return err
		}
		compressionConfig = cfg
	}

	if !uc.fileRepo.FileExists(config.Scanner.SourceDirectory) {
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, config.Scanner.SourceDirectory)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	if !config.Scanner.ReplaceOriginal {
		if err := uc.fileRepo.CreateDirectory(config.Scanner.TargetDirectory); err != nil {
			err = fmt.Errorf("ошибка создания целевой директории: %w", err)
			status.Fail(err)
			uc.reportProgress(status)
			return err
		}
	}

	status.SetPhase(entities.PhaseScanning, "Сканирование PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("🔍 Сканирование директории...")

	files, err := uc.fileRepo.ListPDFFiles(config.Scanner.SourceDirectory)
	if err != nil {
		err = fmt.Errorf("ошибка получения списка файлов: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return err
	}

	if len(files) == 0 {
		uc.logWarning("⚠️  PDF файлы не найдены в директории: %s", config.Scanner.SourceDirectory)
		status.Complete()
		uc.reportProgress(status)
		return nil
	}

	status.TotalFiles = len(files)
	uc.logSuccess("✓ Найдено файлов для обработки: %d", len(files))

	status.SetPhase(entities.PhaseCompressing, "Сжатие PDF файлов...")
	uc.reportProgress(status)
	uc.logInfo("")
	uc.logInfo("🔄 Начало сжатия файлов...")
	uc.logInfo("─────────────────────────────────────────────────────────────")

	workers := config.Processing.ParallelWorkers
	if workers <= 0 {
		workers = 1
	}

	jobs := make(chan string, len(files))
	results := make(chan *entities.CompressionResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go uc.worker(jobs, results, &wg, config, compressionConfig)
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	fileCounter := 0
	for result := range results {
		fileCounter++
		status.AddResult(result)
		status.SetCurrentFile(result.CurrentFile, result.OriginalSize)
		uc.reportProgress(status)

		fileName := filepath.Base(result.CurrentFile)
		if result.Success && result.Error == nil {
			uc.logSuccess("[%d/%d] ✓ %s (%s)", fileCounter, status.TotalFiles, fileName, result.Preset)
			uc.logInfo("    └─ Размер: %.2f MB → %.2f MB",
				float64(result.OriginalSize)/1024/1024,
				float64(result.CompressedSize)/1024/1024)
			uc.logInfo("    └─ Сжатие: %.1f%% | Сэкономлено: %.2f MB",
				result.CompressionRatio,
				float64(result.SavedSpace)/1024/1024)
		} else {
			uc.logError("[%d/%d] ✗ %s", fileCounter, status.TotalFiles, fileName)
			uc.logError("    └─ Ошибка: %v", result.Error)
		}
	}

	status.Complete()
	uc.reportProgress(status)

	uc.logInfo("")
	uc.logInfo("╔════════════════════════════════════════════════════════════")
	uc.logInfo("║ Обработка завершена")
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Время выполнения: %s", status.FormatElapsedTime())
	uc.logInfo("╠════════════════════════════════════════════════════════════")
	uc.logInfo("║ Статистика файлов:")
	uc.logInfo("║   • Всего: %d", status.TotalFiles)
	uc.logSuccess("║   • Успешно: %d", status.SuccessfulFiles)
	if config.Compression.Mode == entities.ModeTarget {
		uc.logInfo("║   • В пределах %d KB: %d", config.Compression.TargetKB, status.WithinTargetFiles)
	}
	if status.FailedFiles > 0 {
		uc.logError("║   • Ошибок: %d", status.FailedFiles)
	}
	if status.TotalOriginalSize > 0 {
		uc.logInfo("╠════════════════════════════════════════════════════════════")
		uc.logInfo("║ Статистика сжатия:")
		uc.logInfo("║   • Исходный размер: %.2f MB", float64(status.TotalOriginalSize)/1024/1024)
		uc.logInfo("║   • Сжатый размер: %.2f MB", float64(status.TotalCompressedSize)/1024/1024)
		uc.logSuccess("║   • Среднее сжатие: %.1f%%", status.AverageCompression)
		uc.logSuccess("║   • Сэкономлено: %.2f MB", float64(status.TotalSavedSpace)/1024/1024)
	}
	uc.logInfo("╚════════════════════════════════════════════════════════════")

	return nil
}

// worker обрабатывает файлы в отдельной горутине
func (uc *ProcessPDFsUseCase) worker(
	jobs <-chan string,
	results chan<- *entities.CompressionResult,
	wg *sync.WaitGroup,
	config *entities.Config,
	compressionConfig *entities.CompressionConfig,
) {
	defer wg.Done()

	for inputFile := range jobs {
		results <- uc.processFile(inputFile, config, compressionConfig)
	}
}

// outputPathFor определяет путь выходного файла, сохраняя структуру директорий
func (uc *ProcessPDFsUseCase) outputPathFor(inputFile string, config *entities.Config) (string, error) {
	if config.Scanner.ReplaceOriginal {
		return inputFile + ".tmp", nil
	}

	relPath, err := filepath.Rel(config.Scanner.SourceDirectory, inputFile)
	if err != nil {
		return filepath.Join(config.Scanner.TargetDirectory, filepath.Base(inputFile)), nil
	}

	outputFile := filepath.Join(config.Scanner.TargetDirectory, relPath)
	outputDir := filepath.Dir(outputFile)
	if err := uc.fileRepo.CreateDirectory(outputDir); err != nil {
		return "", fmt.Errorf("не удалось создать директорию %s: %w", outputDir, err)
	}
	return outputFile, nil
}

// processFile сжимает один файл с повторными попытками
func (uc *ProcessPDFsUseCase) processFile(
	inputFile string,
	config *entities.Config,
	compressionConfig *entities.CompressionConfig,
) *entities.CompressionResult {
	fileName := filepath.Base(inputFile)

	outputFile, err := uc.outputPathFor(inputFile, config)
	if err != nil {
		return entities.FailedResult(inputFile, 0, err)
	}

	fileInfo, err := uc.fileRepo.GetFileInfo(inputFile)
	if err != nil {
		return entities.FailedResult(inputFile, 0, fmt.Errorf("ошибка получения информации о файле: %w", err))
	}

	attempts := config.Processing.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var result *entities.CompressionResult
	for attempt := 0; attempt < attempts; attempt++ {
		result, err = uc.compressOnce(inputFile, outputFile, config, compressionConfig)
		if err == nil {
			break
		}
		if attempt < attempts-1 {
			uc.logWarning("Попытка %d/%d для файла %s не удалась: %v", attempt+1, attempts, fileName, err)
			time.Sleep(uc.retryDelay)
		}
	}

	if err != nil {
		return entities.FailedResult(inputFile, fileInfo.Size, err)
	}

	result.CurrentFile = inputFile
	result.OriginalSize = fileInfo.Size
	result.Success = true

	if config.Scanner.ReplaceOriginal {
		uc.finishReplace(inputFile, outputFile, result)
	}

	result.CalculateCompressionRatio()
	return result
}

// compressOnce выполняет одну попытку в режиме target или preset
func (uc *ProcessPDFsUseCase) compressOnce(
	inputFile, outputFile string,
	config *entities.Config,
	compressionConfig *entities.CompressionConfig,
) (*entities.CompressionResult, error) {
	result := &entities.CompressionResult{OutputFile: outputFile}

	if config.Compression.Mode == entities.ModeTarget {
		search := NewCompressToTargetUseCase(uc.compressor, uc.fileRepo, uc.logger)
		search.SetProbeReporter(uc.probeReporter)

		outcome, err := search.Execute(inputFile, outputFile, config.Compression.TargetKB)
		if err != nil {
			return nil, err
		}
		if !outcome.Found() {
			return nil, fmt.Errorf("%w: ни один пресет не дал результата", entities.ErrCompressionFailed)
		}
		result.Preset = outcome.Selected.Preset
		result.WithinTarget = outcome.WithinTarget()
	} else {
		if err := uc.compressor.Compress(inputFile, outputFile, compressionConfig.Preset); err != nil {
			_ = uc.fileRepo.Remove(outputFile)
			return nil, err
		}
		result.Preset = compressionConfig.Preset
	}

	info, err := uc.fileRepo.GetFileInfo(outputFile)
	if err != nil {
		return nil, fmt.Errorf("%w: выходной файл не создан: %v", entities.ErrCompressionFailed, err)
	}
	result.CompressedSize = info.Size

	return result, nil
}

// finishReplace заменяет оригинал сжатой версией, если она меньше
func (uc *ProcessPDFsUseCase) finishReplace(inputFile, tempFile string, result *entities.CompressionResult) {
	result.OutputFile = inputFile

	if result.CompressedSize >= result.OriginalSize {
		_ = uc.fileRepo.Remove(tempFile)
		result.CompressedSize = result.OriginalSize
		uc.logWarning("Сжатая версия %s не меньше оригинала, оригинал оставлен", filepath.Base(inputFile))
		return
	}

	if err := uc.replaceOriginalFile(inputFile, tempFile); err != nil {
		_ = uc.fileRepo.Remove(tempFile)
		result.Success = false
		result.Error = fmt.Errorf("ошибка замены оригинального файла: %w", err)
		uc.logError("Не удалось заменить оригинальный файл %s: %v", inputFile, err)
	}
}

// replaceOriginalFile заменяет оригинальный файл сжатым через резервную копию
func (uc *ProcessPDFsUseCase) replaceOriginalFile(originalFile, tempFile string) error {
	if !uc.fileRepo.FileExists(tempFile) {
		return fmt.Errorf("временный файл не существует: %s", tempFile)
	}

	backupFile := originalFile + ".backup"

	if err := os.Rename(originalFile, backupFile); err != nil {
		return fmt.Errorf("ошибка создания резервной копии: %w", err)
	}

	if err := uc.fileRepo.Move(tempFile, originalFile); err != nil {
		_ = os.Rename(backupFile, originalFile)
		return fmt.Errorf("ошибка замены файла: %w", err)
	}

	if err := uc.fileRepo.Remove(backupFile); err != nil {
		uc.logWarning("Не удалось удалить резервную копию %s: %v", backupFile, err)
	}

	uc.logDebug("Оригинальный файл заменен: %s", originalFile)
	return nil
}

func (uc *ProcessPDFsUseCase) logDebug(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Debug(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *ProcessPDFsUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
