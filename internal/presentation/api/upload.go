package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shrinker/internal/domain/entities"
)

const (
	// DefaultMaxFileSize ограничение на размер загружаемого файла (50MB)
	DefaultMaxFileSize = 50 * 1024 * 1024

	// DefaultTempDir каталог для временных файлов запросов
	DefaultTempDir = "./temp"

	// DefaultFilePermissions права на создаваемые каталоги
	DefaultFilePermissions = 0755

	maxErrorLength = 200
)

// ensureTempDir создает временный каталог, если его нет
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, DefaultFilePermissions)
}

// newWorkDir создает отдельный каталог для одного запроса
func newWorkDir(tempDir string) (string, error) {
	if err := ensureTempDir(tempDir); err != nil {
		return "", err
	}
	dir := filepath.Join(tempDir, "req_"+uuid.NewString())
	if err := os.Mkdir(dir, DefaultFilePermissions); err != nil {
		return "", err
	}
	return dir, nil
}

// sanitizeFilename убирает попытки выхода за пределы каталога
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" || filename == "." || filename == "_" {
		filename = "document.pdf"
	}
	return filename
}

// downloadName имя файла в ответе: <base>_<suffix>.pdf
func downloadName(original, suffix string) string {
	name := sanitizeFilename(original)
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		name = name[:len(name)-4]
	}
	return name + "_" + suffix + ".pdf"
}

// validatePDFFile проверяет размер и сигнатуру %PDF, затем возвращает чтение в начало
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("%w: размер %d превышает допустимые %d байт", errFileTooLarge, header.Size, maxSize)
	}

	buffer := make([]byte, 4)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("не удалось прочитать заголовок файла: %v", err)
	}
	if n < 4 || string(buffer) != "%PDF" {
		return fmt.Errorf("%w: заголовок не %%PDF", entities.ErrInvalidFileFormat)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("не удалось перечитать файл: %v", err)
	}
	return nil
}

// saveUpload сохраняет загруженный файл в path
func saveUpload(file multipart.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := out.ReadFrom(file); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

// truncateError укорачивает текст ошибки для ответа клиенту
func truncateError(err error) string {
	msg := err.Error()
	if len([]rune(msg)) > maxErrorLength {
		return string([]rune(msg)[:maxErrorLength]) + "..."
	}
	return msg
}
