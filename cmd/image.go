package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shrinker/internal/infrastructure/compressors"
	"shrinker/internal/presentation/cli"
	usecases "shrinker/internal/usecase"
)

var (
	imageOutput     string
	imageQuality    int
	imageResize     int
	imageBackground string
)

var imageCmd = &cobra.Command{
	Use:   "image [flags] <input.jpg|input.png>",
	Short: "Сжать изображение JPEG или PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		options := app.config.Images
		options.EnableJPEG = true
		options.EnablePNG = true
		if cmd.Flags().Changed("quality") {
			options.Quality = imageQuality
		}
		if cmd.Flags().Changed("resize") {
			options.ResizePercent = imageResize
		}
		if cmd.Flags().Changed("background") {
			options.Background = imageBackground
		}

		input := args[0]
		output := imageOutput
		if output == "" {
			output = usecases.DefaultImageOutputPath(input)
		}

		before, err := os.Stat(input)
		if err != nil {
			return err
		}

		useCase := usecases.NewCompressImageUseCase(app.logger, compressors.NewImageCompressor())
		if err := useCase.CompressImage(input, output, &options); err != nil {
			return err
		}

		after, err := os.Stat(output)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, cli.RenderSummary([]cli.SummaryRow{
			{Label: "Файл", Value: filepath.Base(input)},
			{Label: "Результат", Value: output},
			{Label: "Было", Value: cli.FormatSize(before.Size())},
			{Label: "Стало", Value: cli.FormatSize(after.Size())},
		}))
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Перекодировать изображение в формат по расширению output (.png .jpg .bmp .tif .gif)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApplication(cmd.Flags(), true)
		if err != nil {
			return err
		}
		defer app.Close()

		useCase := usecases.NewCompressImageUseCase(app.logger, compressors.NewImageCompressor())
		if err := useCase.ConvertImage(args[0], args[1]); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Сохранено: %s\n", args[1])
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "путь результата (по умолчанию <имя>_compressed<расширение>)")
	imageCmd.Flags().IntVarP(&imageQuality, "quality", "q", 85, "качество 1-100")
	imageCmd.Flags().IntVarP(&imageResize, "resize", "r", 100, "масштаб в процентах (100 - без изменения)")
	imageCmd.Flags().StringVar(&imageBackground, "background", "#FFFFFF", "цвет подложки для прозрачных пикселей")

	rootCmd.AddCommand(imageCmd, convertCmd)
}
