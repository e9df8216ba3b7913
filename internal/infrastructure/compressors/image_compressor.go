package compressors

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// DefaultImageCompressor реализация компрессора изображений
type DefaultImageCompressor struct{}

// NewImageCompressor создает новый компрессор изображений
func NewImageCompressor() *DefaultImageCompressor {
	return &DefaultImageCompressor{}
}

// Compress сжимает изображение: масштабирует на ResizePercent, заливает
// прозрачность цветом Background и кодирует в формат по расширению outputPath
func (c *DefaultImageCompressor) Compress(inputPath, outputPath string, options repositories.ImageOptions) error {
	if options.Quality < 1 || options.Quality > 100 {
		return entities.ErrInvalidImageQuality
	}
	if options.ResizePercent < 0 || options.ResizePercent > 100 {
		return entities.ErrInvalidResizePercent
	}

	format := GetImageFormat(outputPath)
	if format != "jpeg" && format != "png" {
		return fmt.Errorf("%w: %s", entities.ErrUnsupportedFormat, filepath.Ext(outputPath))
	}

	background, err := ParseBackground(options.Background)
	if err != nil {
		return err
	}

	img, originalSize, err := decodeImage(inputPath)
	if err != nil {
		return err
	}

	// Изменяем размер только при 0 < p < 100
	resized := false
	if options.ResizePercent > 0 && options.ResizePercent < 100 {
		bounds := img.Bounds()
		newWidth := uint(bounds.Dx() * options.ResizePercent / 100)
		newHeight := uint(bounds.Dy() * options.ResizePercent / 100)
		if newWidth > 0 && newHeight > 0 {
			img = resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
			resized = true
		}
	}

	finalImg := flatten(img, background)

	tmpPath, err := encodeToTemp(outputPath, func(w io.Writer) error {
		if format == "jpeg" {
			return jpeg.Encode(w, finalImg, &jpeg.Options{Quality: options.Quality})
		}
		encoder := &png.Encoder{CompressionLevel: png.BestCompression}
		return encoder.Encode(w, finalImg)
	})
	if err != nil {
		return err
	}

	// Если сжатие неэффективно и размер не менялся, оставляем оригинал
	if !resized && sameFormat(inputPath, outputPath) {
		info, err := os.Stat(tmpPath)
		if err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("не удалось получить информацию о файле %s: %w", tmpPath, err)
		}
		if info.Size() >= originalSize {
			os.Remove(tmpPath)
			if inputPath == outputPath {
				return nil
			}
			return copyOriginal(inputPath, outputPath)
		}
	}

	return commitTemp(tmpPath, outputPath)
}

// Convert перекодирует изображение в формат по расширению outputPath без потерь,
// где формат это позволяет. JPEG пишется с качеством 100 и залитой прозрачностью.
func (c *DefaultImageCompressor) Convert(inputPath, outputPath string) error {
	format := GetImageFormat(outputPath)

	img, _, err := decodeImage(inputPath)
	if err != nil {
		return err
	}

	var encode func(w io.Writer) error
	switch format {
	case "jpeg":
		rgb := flatten(img, color.White)
		encode = func(w io.Writer) error {
			return jpeg.Encode(w, rgb, &jpeg.Options{Quality: 100})
		}
	case "png":
		encode = func(w io.Writer) error {
			return (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(w, img)
		}
	case "tiff":
		encode = func(w io.Writer) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
		}
	case "bmp":
		encode = func(w io.Writer) error {
			return bmp.Encode(w, img)
		}
	case "gif":
		encode = func(w io.Writer) error {
			return gif.Encode(w, img, &gif.Options{NumColors: 256})
		}
	default:
		return fmt.Errorf("%w: %s", entities.ErrUnsupportedFormat, filepath.Ext(outputPath))
	}

	return writeAtomically(outputPath, encode)
}

// decodeImage открывает и декодирует изображение, возвращая размер файла
func decodeImage(path string) (image.Image, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось открыть файл %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("не удалось получить информацию о файле %s: %w", path, err)
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: не удалось декодировать %s: %v", entities.ErrInvalidFileFormat, path, err)
	}
	return img, info.Size(), nil
}

// flatten накладывает изображение на непрозрачную подложку
func flatten(img image.Image, background color.Color) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// writeAtomically пишет во временный файл рядом с целевым и переименовывает его
func writeAtomically(outputPath string, encode func(w io.Writer) error) error {
	tmpPath, err := encodeToTemp(outputPath, encode)
	if err != nil {
		return err
	}
	return commitTemp(tmpPath, outputPath)
}

func encodeToTemp(outputPath string, encode func(w io.Writer) error) (string, error) {
	tmpPath := outputPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("не удалось создать временный файл: %w", err)
	}

	err = encode(tmpFile)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("не удалось закодировать изображение: %w", err)
	}
	return tmpPath, nil
}

func commitTemp(tmpPath, outputPath string) error {
	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("не удалось переименовать временный файл: %w", err)
	}
	return nil
}

func copyOriginal(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("не удалось создать выходной файл: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("не удалось скопировать файл: %w", err)
	}
	return nil
}

func sameFormat(a, b string) bool {
	return GetImageFormat(a) == GetImageFormat(b)
}

// ParseBackground разбирает цвет подложки: "#RRGGBB", "RRGGBB", "white", "black".
// Пустая строка означает белый.
func ParseBackground(value string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "white":
		return color.White, nil
	case "black":
		return color.Black, nil
	}

	v = strings.TrimPrefix(v, "#")
	if len(v) != 6 {
		return nil, fmt.Errorf("некорректный цвет подложки %q", value)
	}
	rgb, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("некорректный цвет подложки %q: %w", value, err)
	}
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
}

// IsImageFile проверяет, является ли файл изображением поддерживаемого формата
func IsImageFile(filename string) bool {
	switch GetImageFormat(filename) {
	case "jpeg", "png":
		return true
	}
	return false
}

// GetImageFormat возвращает формат изображения по расширению файла
func GetImageFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return ""
	}
}

// CompressedImagePath путь по умолчанию для сжатого изображения
func CompressedImagePath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_compressed" + ext
}
