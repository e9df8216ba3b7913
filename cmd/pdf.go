package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shrinker/internal/domain/entities"
	infraRepos "shrinker/internal/infrastructure/repositories"
	"shrinker/internal/presentation/cli"
	usecases "shrinker/internal/usecase"
)

var errNoResult = errors.New("ни один пресет не дал результата")

var (
	targetKB     int64
	targetOutput string

	compressPreset string
	compressOutput string

	optimizeOutput       string
	optimizeKeepMetadata bool
)

var targetCmd = &cobra.Command{
	Use:   "target [flags] <input.pdf>",
	Short: "Подобрать пресет, при котором PDF укладывается в целевой размер",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		limit := app.config.Compression.TargetKB
		if cmd.Flags().Changed("target-kb") {
			limit = targetKB
		}
		if limit <= 0 {
			return entities.ErrInvalidTargetSize
		}

		input := args[0]
		original, err := app.fileRepo.GetFileInfo(input)
		if err != nil {
			return fmt.Errorf("%w: %s", entities.ErrFileNotFound, input)
		}
		if original.SizeKB() <= limit {
			app.logger.Info("Исходный файл (%d KB) уже укладывается в %d KB", original.SizeKB(), limit)
		}

		compressor, err := newDocumentCompressor(app.config)
		if err != nil {
			return err
		}

		useCase := usecases.NewCompressToTargetUseCase(compressor, app.fileRepo, app.logger)
		useCase.SetProbeReporter(func(event entities.ProbeEvent) {
			fmt.Fprintln(os.Stderr, cli.RenderProbeEvent(event))
		})

		outcome, err := useCase.Execute(input, targetOutput, limit)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, cli.RenderOutcome(input, original.Size, outcome))
		if !outcome.Found() {
			return errNoResult
		}
		return nil
	},
}

var compressCmd = &cobra.Command{
	Use:   "compress [flags] <input.pdf>",
	Short: "Сжать PDF одним пресетом",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		name := app.config.Compression.Preset
		if cmd.Flags().Changed("preset") {
			name = compressPreset
		}
		preset, err := entities.ParsePreset(name)
		if err != nil {
			return err
		}

		compressor, err := newDocumentCompressor(app.config)
		if err != nil {
			return err
		}

		useCase := usecases.NewCompressPDFUseCase(
			compressor,
			app.fileRepo,
			infraRepos.NewConfigRepository(app.config.Compression.UniPDFLicenseKey),
		)
		result, err := useCase.Execute(args[0], compressOutput, preset)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, cli.RenderCompression("Сжатие PDF", result))
		return nil
	},
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize [flags] <input.pdf>",
	Short: "Оптимизировать структуру PDF без перекодирования изображений",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		if cmd.Flags().Changed("keep-metadata") {
			app.config.Compression.KeepMetadata = optimizeKeepMetadata
		}

		useCase := usecases.NewOptimizePDFUseCase(newOptimizer(app.config), app.fileRepo, app.logger)
		result, err := useCase.Execute(args[0], optimizeOutput)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, cli.RenderCompression("Оптимизация PDF", result))
		return nil
	},
}

func init() {
	targetCmd.Flags().Int64VarP(&targetKB, "target-kb", "t", 0, "целевой размер в KB (по умолчанию из конфигурации)")
	targetCmd.Flags().StringVarP(&targetOutput, "output", "o", "", "путь результата (по умолчанию <имя>_compressed_target.pdf)")

	compressCmd.Flags().StringVarP(&compressPreset, "preset", "p", "", "пресет: screen, ebook, printer, prepress, default")
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "путь результата (по умолчанию <имя>_compressed.pdf)")

	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "путь результата (по умолчанию <имя>_optimized.pdf)")
	optimizeCmd.Flags().BoolVar(&optimizeKeepMetadata, "keep-metadata", false, "не удалять метаданные документа")

	rootCmd.AddCommand(targetCmd, compressCmd, optimizeCmd)
}
