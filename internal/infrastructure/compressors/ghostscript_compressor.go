package compressors

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// ghostscriptBinaries имена исполняемого файла Ghostscript по платформам
var ghostscriptBinaries = []string{"gs", "gswin64c", "gswin32c"}

// LocateGhostscript возвращает путь к Ghostscript: из конфигурации или из PATH
func LocateGhostscript(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%w: %s", entities.ErrCompressorMissing, configured)
		}
		return configured, nil
	}

	for _, name := range ghostscriptBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: ghostscript не найден в PATH", entities.ErrCompressorMissing)
}

// GhostscriptCompressor сжимает PDF внешним процессом Ghostscript (pdfwrite)
type GhostscriptCompressor struct {
	binary   string
	timeout  time.Duration
	imageDPI int
}

// NewGhostscriptCompressor создает компрессор. Пустой binary означает,
// что Ghostscript недоступен и каждый вызов завершится ошибкой.
// timeout <= 0 отключает ограничение времени.
func NewGhostscriptCompressor(binary string, timeout time.Duration) *GhostscriptCompressor {
	return &GhostscriptCompressor{
		binary:  binary,
		timeout: timeout,
	}
}

// IsAvailable проверяет, задан ли исполняемый файл
func (g *GhostscriptCompressor) IsAvailable() bool {
	return g.binary != ""
}

// WithImageDPI копия компрессора с фиксированным разрешением изображений
func (g *GhostscriptCompressor) WithImageDPI(dpi int) repositories.DocumentCompressor {
	c := *g
	c.imageDPI = max(dpi, 0)
	return &c
}

// Args собирает аргументы командной строки для одного пресета.
// Флаги понижения разрешения идут после -dPDFSETTINGS, иначе пресет их перекроет.
func (g *GhostscriptCompressor) Args(inputPath, outputPath string, preset entities.QualityPreset) []string {
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=" + preset.GhostscriptSetting(),
	}
	if g.imageDPI > 0 {
		dpi := strconv.Itoa(g.imageDPI)
		for _, kind := range []string{"Color", "Gray", "Mono"} {
			args = append(args,
				"-dDownsample"+kind+"Images=true",
				"-d"+kind+"ImageResolution="+dpi,
			)
		}
	}
	return append(args,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile="+outputPath,
		inputPath,
	)
}

// Compress сжимает inputPath в outputPath на указанном пресете
func (g *GhostscriptCompressor) Compress(inputPath, outputPath string, preset entities.QualityPreset) error {
	if g.binary == "" {
		return entities.ErrCompressorMissing
	}
	if !preset.IsValid() {
		return fmt.Errorf("%w: %q", entities.ErrUnknownPreset, preset)
	}

	ctx := context.Background()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, g.binary, g.Args(inputPath, outputPath, preset)...)
	cmd.WaitDelay = time.Second

	output, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("ghostscript (%s) не уложился в %v: %w", preset, g.timeout, entities.ErrCompressionFailed)
	}
	if err != nil {
		return fmt.Errorf("ghostscript (%s) завершился с ошибкой: %v, вывод: %s: %w",
			preset, err, strings.TrimSpace(string(output)), entities.ErrCompressionFailed)
	}

	// Проверяем, что выходной файл создан
	if _, err := os.Stat(outputPath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ghostscript (%s) не создал выходной файл: %w", preset, entities.ErrCompressionFailed)
	}

	return nil
}
