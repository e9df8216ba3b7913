package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
	"shrinker/internal/infrastructure/compressors"
	"shrinker/internal/infrastructure/config"
	"shrinker/internal/infrastructure/logging"
	infraRepos "shrinker/internal/infrastructure/repositories"
	usecases "shrinker/internal/usecase"
)

// application общие зависимости всех команд
type application struct {
	configRepo *config.Repository
	configPath string
	config     *entities.Config
	fileLogger *logging.FileLogger
	logger     repositories.Logger
	fileRepo   *infraRepos.FileSystemRepository
}

// loadApplication читает конфигурацию, применяет флаги и создает логгеры.
// console добавляет вывод журнала в stderr (для TUI не используется).
func loadApplication(flags *pflag.FlagSet, console bool) (*application, error) {
	configRepo := config.NewRepository()
	appConfig, err := configRepo.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	applyOverrides(flags, appConfig)

	fileLogger, err := logging.NewFileLogger(
		appConfig.Output.LogFileName,
		appConfig.Output.LogLevel,
		appConfig.Output.LogMaxSizeMB,
		appConfig.Output.LogToFile,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Предупреждение: не удалось инициализировать логгер: %v\n", err)
	}

	var loggers []repositories.Logger
	if fileLogger != nil {
		loggers = append(loggers, fileLogger)
	}
	if console {
		loggers = append(loggers, logging.NewConsoleLogger(os.Stderr, appConfig.Output.LogLevel))
	}

	return &application{
		configRepo: configRepo,
		configPath: configPath,
		config:     appConfig,
		fileLogger: fileLogger,
		logger:     logging.Multi(loggers...),
		fileRepo:   infraRepos.NewFileSystemRepository(),
	}, nil
}

// Close закрывает логгеры
func (a *application) Close() {
	if a.logger != nil {
		_ = a.logger.Close()
	}
}

// applyOverrides переносит явно заданные глобальные флаги в конфигурацию
func applyOverrides(flags *pflag.FlagSet, cfg *entities.Config) {
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = logLevel
	}
	if flags.Changed("engine") {
		cfg.Compression.Engine = engineName
	}
	if flags.Changed("gs") {
		cfg.Compression.GhostscriptPath = ghostscriptBin
	}
	if flags.Changed("timeout") {
		cfg.Processing.TimeoutSeconds = timeoutSeconds
	}
	if flags.Changed("dpi") {
		cfg.Compression.ImageDPI = imageDPI
	}
}

// newDocumentCompressor создает движок сжатия PDF по конфигурации
func newDocumentCompressor(cfg *entities.Config) (repositories.DocumentCompressor, error) {
	dpi := cfg.Compression.ImageDPI
	if err := entities.ValidateImageDPI(dpi); err != nil {
		return nil, err
	}

	switch cfg.Compression.Engine {
	case entities.EngineGhostscript, "":
		binary, err := compressors.LocateGhostscript(cfg.Compression.GhostscriptPath)
		if err != nil {
			return nil, err
		}
		timeout := time.Duration(cfg.Processing.TimeoutSeconds) * time.Second
		return compressors.NewGhostscriptCompressor(binary, timeout).WithImageDPI(dpi), nil
	case entities.EngineUniPDF:
		return compressors.NewUniPDFCompressor(cfg.Compression.UniPDFLicenseKey).WithImageDPI(dpi), nil
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrInvalidEngine, cfg.Compression.Engine)
	}
}

// newOptimizer создает структурный оптимизатор; метаданные удаляются, если не задано keep_metadata
func newOptimizer(cfg *entities.Config) *compressors.PDFCPUOptimizer {
	optimizer := compressors.NewPDFCPUOptimizer()
	optimizer.SetKeepMetadata(cfg.Compression.KeepMetadata)
	return optimizer
}

// newBatchUseCases собирает пакетную обработку PDF и изображений
func (a *application) newBatchUseCases(compressor repositories.DocumentCompressor, logger repositories.Logger) (*usecases.ProcessPDFsUseCase, *usecases.ProcessAllFilesUseCase) {
	processUseCase := usecases.NewProcessPDFsUseCase(
		compressor,
		a.fileRepo,
		infraRepos.NewConfigRepository(a.config.Compression.UniPDFLicenseKey),
		logger,
	)
	imageUseCase := usecases.NewCompressImageUseCase(logger, compressors.NewImageCompressor())
	return processUseCase, usecases.NewProcessAllFilesUseCase(processUseCase, imageUseCase, logger)
}
