package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shrinker/internal/domain/entities"
)

var errFileTooLarge = errors.New("файл слишком большой")

// HandleTarget подбирает пресет под target_kb и отдает результат
func (h *Handler) HandleTarget(c *gin.Context) {
	targetKB, err := strconv.ParseInt(strings.TrimSpace(c.PostForm("target_kb")), 10, 64)
	if err != nil || targetKB <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": entities.ErrInvalidTargetSize.Error()})
		return
	}

	h.handlePDFFile(c, "compressed_target", func(inFile, workDir string) (string, error) {
		outFile := filepath.Join(workDir, "output.pdf")
		outcome, err := h.services.Target.Execute(inFile, outFile, targetKB)
		if err != nil {
			return "", err
		}
		if !outcome.Found() {
			return "", fmt.Errorf("%w: ни один пресет не дал результата", entities.ErrCompressionFailed)
		}

		c.Header("X-Selected-Preset", outcome.Selected.Preset.String())
		c.Header("X-Result-Size-KB", strconv.FormatInt(outcome.Selected.SizeKB, 10))
		c.Header("X-Outcome", outcome.Status.String())
		return outcome.Path, nil
	})
}

// HandleCompress сжимает PDF одним пресетом (по умолчанию ebook).
// Необязательное поле dpi задает разрешение изображений.
func (h *Handler) HandleCompress(c *gin.Context) {
	preset := entities.PresetEbook
	if name := c.PostForm("preset"); name != "" {
		parsed, err := entities.ParsePreset(name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		preset = parsed
	}

	dpi, err := parseDPI(c.PostForm("dpi"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.handlePDFFile(c, "compressed", func(inFile, workDir string) (string, error) {
		result, err := h.services.Compress.ExecuteWithDPI(inFile, filepath.Join(workDir, "output.pdf"), preset, dpi)
		if err != nil {
			return "", err
		}
		c.Header("X-Selected-Preset", preset.String())
		c.Header("X-Result-Size-KB", strconv.FormatInt(result.CompressedKB(), 10))
		return result.OutputFile, nil
	})
}

// HandleOptimize структурная оптимизация без перекодирования изображений
func (h *Handler) HandleOptimize(c *gin.Context) {
	if h.services.Optimize == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "оптимизация недоступна"})
		return
	}

	h.handlePDFFile(c, "optimized", func(inFile, workDir string) (string, error) {
		result, err := h.services.Optimize.Execute(inFile, filepath.Join(workDir, "output.pdf"))
		if err != nil {
			return "", err
		}
		c.Header("X-Result-Size-KB", strconv.FormatInt(result.CompressedKB(), 10))
		return result.OutputFile, nil
	})
}

// handlePDFFile принимает поле pdf, выполняет operation в каталоге запроса
// и отдает получившийся файл. Каталог удаляется после ответа.
func (h *Handler) handlePDFFile(c *gin.Context, suffix string, operation func(inFile, workDir string) (string, error)) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF файл не передан"})
		return
	}
	defer file.Close()

	if err := validatePDFFile(file, header, h.config.MaxFileSize); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	workDir, err := newWorkDir(h.config.TempDir)
	if err != nil {
		h.logError("Не удалось создать временный каталог: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось создать временный каталог"})
		return
	}
	defer os.RemoveAll(workDir)

	inFile := filepath.Join(workDir, "input.pdf")
	if err := saveUpload(file, inFile); err != nil {
		h.logError("Не удалось сохранить %s: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить файл"})
		return
	}

	outFile, err := operation(inFile, workDir)
	if err != nil {
		h.logError("Обработка %s не удалась: %v", header.Filename, err)
		c.JSON(statusFor(err), gin.H{"error": truncateError(err)})
		return
	}

	if _, err := os.Stat(outFile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "операция не создала выходной файл"})
		return
	}

	h.logInfo("%s обработан (%s)", header.Filename, suffix)
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(outFile, downloadName(header.Filename, suffix))
}

// parseDPI разбирает поле dpi; пустое значение означает разрешение пресета
func parseDPI(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	dpi, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", entities.ErrInvalidImageDPI, value)
	}
	if err := entities.ValidateImageDPI(dpi); err != nil {
		return 0, err
	}
	return dpi, nil
}

// statusFor сопоставляет доменные ошибки с кодами ответа
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrCompressionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrUnknownPreset),
		errors.Is(err, entities.ErrInvalidTargetSize),
		errors.Is(err, entities.ErrInvalidImageDPI),
		errors.Is(err, entities.ErrInvalidFileFormat):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrCompressorMissing):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) logInfo(format string, args ...interface{}) {
	if h.services.Logger != nil {
		h.services.Logger.Info(format, args...)
	}
}

func (h *Handler) logError(format string, args ...interface{}) {
	if h.services.Logger != nil {
		h.services.Logger.Error(format, args...)
	}
}
