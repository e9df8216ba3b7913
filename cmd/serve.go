package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	infraRepos "shrinker/internal/infrastructure/repositories"
	"shrinker/internal/presentation/api"
	usecases "shrinker/internal/usecase"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Запустить HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		cfg := app.config
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		// Без компрессора сервер бесполезен, проверяем при старте
		compressor, err := newDocumentCompressor(cfg)
		if err != nil {
			return err
		}

		apiConfig := api.Config{
			Port:        cfg.Server.Port,
			MaxFileSize: int64(cfg.Server.MaxFileSizeMB) * 1024 * 1024,
			TempDir:     cfg.Server.TempDir,
		}
		handler := api.NewHandler(apiConfig, api.Services{
			Target: usecases.NewCompressToTargetUseCase(compressor, app.fileRepo, app.logger),
			Compress: usecases.NewCompressPDFUseCase(
				compressor,
				app.fileRepo,
				infraRepos.NewConfigRepository(cfg.Compression.UniPDFLicenseKey),
			),
			Optimize: usecases.NewOptimizePDFUseCase(newOptimizer(cfg), app.fileRepo, app.logger),
			Logger:   app.logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app.logger.Info("Сервер запущен на :%s", apiConfig.Port)
		app.logger.Info("Максимальный размер файла: %d байт", apiConfig.MaxFileSize)
		app.logger.Info("Временный каталог: %s", apiConfig.TempDir)

		if err := api.Serve(ctx, apiConfig, api.NewRouter(handler)); err != nil {
			return err
		}
		app.logger.Info("Сервер остановлен")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "порт HTTP сервера (по умолчанию из конфигурации)")
	rootCmd.AddCommand(serveCmd)
}
