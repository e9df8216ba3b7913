package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"shrinker/internal/domain/entities"
	"shrinker/internal/presentation/cli"
)

var (
	batchTargetDir string
	batchMode      string
	batchTargetKB  int64
	batchPreset    string
	batchWorkers   int
	batchReplace   bool
	batchImages    bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] [source-dir]",
	Short: "Обработать каталог без интерактивного интерфейса",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		cfg := app.config
		flags := cmd.Flags()
		if len(args) == 1 {
			cfg.Scanner.SourceDirectory = args[0]
		}
		if flags.Changed("target-dir") {
			cfg.Scanner.TargetDirectory = batchTargetDir
		}
		if flags.Changed("mode") {
			cfg.Compression.Mode = batchMode
		}
		if flags.Changed("target-kb") {
			cfg.Compression.TargetKB = batchTargetKB
		}
		if flags.Changed("preset") {
			cfg.Compression.Preset = batchPreset
		}
		if flags.Changed("workers") {
			cfg.Processing.ParallelWorkers = batchWorkers
		}
		if flags.Changed("replace") {
			cfg.Scanner.ReplaceOriginal = batchReplace
		}
		if flags.Changed("images") {
			cfg.Images.EnableJPEG = batchImages
			cfg.Images.EnablePNG = batchImages
		}

		compressor, err := newDocumentCompressor(cfg)
		if err != nil {
			return err
		}
		processUseCase, allFilesUseCase := app.newBatchUseCases(compressor, app.logger)

		var (
			mu   sync.Mutex
			last entities.ProcessingStatus
		)
		processUseCase.SetProgressReporter(func(status entities.ProcessingStatus) {
			mu.Lock()
			last = status
			mu.Unlock()
		})
		processUseCase.SetProbeReporter(func(event entities.ProbeEvent) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(os.Stderr, "%s %s\n", filepath.Base(event.Source), cli.RenderProbeEvent(event))
		})

		if err := allFilesUseCase.Execute(cfg); err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		if last.TotalFiles > 0 {
			fmt.Fprintln(os.Stdout, cli.RenderBatch(last, cfg.Compression.Mode, cfg.Compression.TargetKB))
		}
		return nil
	},
}

func init() {
	flags := batchCmd.Flags()
	flags.StringVarP(&batchTargetDir, "target-dir", "o", "", "каталог для результатов")
	flags.StringVarP(&batchMode, "mode", "m", "", "режим: target или preset")
	flags.Int64VarP(&batchTargetKB, "target-kb", "t", 0, "целевой размер в KB для режима target")
	flags.StringVarP(&batchPreset, "preset", "p", "", "пресет для режима preset")
	flags.IntVarP(&batchWorkers, "workers", "w", 0, "количество параллельных воркеров")
	flags.BoolVar(&batchReplace, "replace", false, "заменять исходные файлы, если результат меньше")
	flags.BoolVar(&batchImages, "images", false, "сжимать также JPEG и PNG")

	rootCmd.AddCommand(batchCmd)
}
