package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
	"shrinker/internal/presentation/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Интерактивная пакетная обработка",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI собирает интерактивный режим: журнал пишется только в файл и на экран
func runTUI(cmd *cobra.Command) error {
	app, err := loadApplication(cmd.Flags(), false)
	if err != nil {
		return err
	}

	tuiManager := tui.NewManager(app.configRepo, app.configPath, app.config)
	tuiManager.Initialize()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	var logger repositories.Logger = tui.NewUILogger(app.logger, tuiManager)
	defer logger.Close()

	buildRunner := func(cfg *entities.Config) (Runner, error) {
		compressor, err := newDocumentCompressor(cfg)
		if err != nil {
			return nil, err
		}
		processUseCase, allFilesUseCase := app.newBatchUseCases(compressor, logger)
		processUseCase.SetProgressReporter(tuiManager.SendStatusUpdate)
		processUseCase.SetProbeReporter(tuiManager.SendProbeEvent)
		return allFilesUseCase, nil
	}
	reportFailure := func(err error) {
		status := entities.NewProcessingStatus(0)
		status.Fail(err)
		tuiManager.SendStatusUpdate(*status)
	}

	processor := NewApplicationProcessor(tuiManager.GetConfig, buildRunner, reportFailure, logger)
	defer processor.Shutdown()

	// Привязываем запуск обработки к TUI
	tuiManager.SetOnStartProcessing(processor.StartProcessing)

	// Автозапуск, если включен в конфигурации
	if app.config.Compression.AutoStart {
		go tuiManager.StartProcessing()
	}

	if err := tuiManager.Run(); err != nil {
		return fmt.Errorf("ошибка запуска TUI: %w", err)
	}

	tuiManager.Cleanup()
	return nil
}
