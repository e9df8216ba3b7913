package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath     string
	logLevel       string
	engineName     string
	ghostscriptBin string
	timeoutSeconds int
	imageDPI       int
)

var rootCmd = &cobra.Command{
	Use:   "shrinker",
	Short: "shrinker - сжатие PDF до целевого размера",
	Long: "shrinker подбирает пресет Ghostscript, при котором PDF укладывается в заданный размер,\n" +
		"а также сжимает изображения и обрабатывает каталоги пакетно.\n" +
		"Без подкоманды запускается интерактивный режим.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

// Execute запускает обработку командной строки
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "config.yaml", "путь к файлу конфигурации")
	flags.StringVar(&logLevel, "log-level", "", "уровень логирования: debug, info, warning, error")
	flags.StringVar(&engineName, "engine", "", "движок сжатия PDF: ghostscript или unipdf")
	flags.StringVar(&ghostscriptBin, "gs", "", "путь к исполняемому файлу Ghostscript")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "ограничение времени одной пробы в секундах (0 - без ограничения)")
	flags.IntVar(&imageDPI, "dpi", 0, "разрешение изображений в PDF (0 - по пресету)")
}
