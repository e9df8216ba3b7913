package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
	infra "shrinker/internal/infrastructure/repositories"
	usecases "shrinker/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// sizedCompressor пишет файл заданного размера (KB) для каждого пресета; отрицательный размер означает ошибку
type sizedCompressor map[entities.QualityPreset]int

func (s sizedCompressor) Compress(_, outputPath string, preset entities.QualityPreset) error {
	kb, ok := s[preset]
	if !ok || kb < 0 {
		return fmt.Errorf("%w: %s", entities.ErrCompressionFailed, preset)
	}
	return os.WriteFile(outputPath, bytes.Repeat([]byte{'x'}, kb*1024), 0644)
}

type copyOptimizer struct{}

func (copyOptimizer) Optimize(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func (copyOptimizer) PageCount(string) (int, error) { return 1, nil }

func newTestRouter(t *testing.T, compressor sizedCompressor, withOptimizer bool, maxSize int64) (*gin.Engine, string) {
	t.Helper()
	tempDir := t.TempDir()
	fileRepo := infra.NewFileSystemRepository()

	services := Services{
		Target:   usecases.NewCompressToTargetUseCase(compressor, fileRepo, nil),
		Compress: usecases.NewCompressPDFUseCase(compressor, fileRepo, infra.NewConfigRepository("")),
	}
	if withOptimizer {
		services.Optimize = usecases.NewOptimizePDFUseCase(copyOptimizer{}, fileRepo, nil)
	}

	return NewRouter(NewHandler(Config{MaxFileSize: maxSize, TempDir: tempDir}, services)), tempDir
}

func newUpload(t *testing.T, path, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	part, err := w.CreateFormFile("pdf", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func samplePDF() []byte {
	return []byte("%PDF-1.4\n" + strings.Repeat("0", 4096) + "\n%%EOF\n")
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temp dir not cleaned: %v", names)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %q", rec.Body.String())
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, sizedCompressor{}, false, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("GET /health = %d %s", rec.Code, rec.Body.String())
	}
}

func TestHandleTarget(t *testing.T) {
	tests := []struct {
		name       string
		sizes      sizedCompressor
		targetKB   string
		wantCode   int
		wantPreset string
		wantSize   string
		wantStatus string
	}{
		{
			name:       "first fit",
			sizes:      sizedCompressor{entities.PresetScreen: 300, entities.PresetEbook: 200, entities.PresetPrinter: 100},
			targetKB:   "250",
			wantCode:   http.StatusOK,
			wantPreset: "ebook",
			wantSize:   "200",
			wantStatus: "accepted",
		},
		{
			name:       "closest",
			sizes:      sizedCompressor{entities.PresetScreen: 400, entities.PresetEbook: 300},
			targetKB:   "100",
			wantCode:   http.StatusOK,
			wantPreset: "ebook",
			wantSize:   "300",
			wantStatus: "closest",
		},
		{
			name:     "nothing succeeded",
			sizes:    sizedCompressor{},
			targetKB: "100",
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "zero target",
			sizes:    sizedCompressor{entities.PresetScreen: 10},
			targetKB: "0",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "not a number",
			sizes:    sizedCompressor{entities.PresetScreen: 10},
			targetKB: "много",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, tempDir := newTestRouter(t, tt.sizes, false, 0)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newUpload(t, "/api/pdf/target", "report.pdf", samplePDF(), map[string]string{"target_kb": tt.targetKB}))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				if got := rec.Header().Get("X-Selected-Preset"); got != tt.wantPreset {
					t.Errorf("X-Selected-Preset = %q, want %q", got, tt.wantPreset)
				}
				if got := rec.Header().Get("X-Result-Size-KB"); got != tt.wantSize {
					t.Errorf("X-Result-Size-KB = %q, want %q", got, tt.wantSize)
				}
				if got := rec.Header().Get("X-Outcome"); got != tt.wantStatus {
					t.Errorf("X-Outcome = %q, want %q", got, tt.wantStatus)
				}
				if !strings.Contains(rec.Header().Get("Content-Disposition"), "report_compressed_target.pdf") {
					t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
				}
				if got := fmt.Sprint(rec.Body.Len() / 1024); got != tt.wantSize {
					t.Errorf("body size = %s KB, want %s", got, tt.wantSize)
				}
			} else if errorMessage(t, rec) == "" {
				t.Error("error message is empty")
			}

			assertEmptyDir(t, tempDir)
		})
	}
}

func TestHandleCompress(t *testing.T) {
	sizes := sizedCompressor{entities.PresetEbook: 20, entities.PresetPrinter: 40}
	router, tempDir := newTestRouter(t, sizes, false, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/compress", "scan.PDF", samplePDF(), map[string]string{"preset": "/Printer"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Selected-Preset"); got != "printer" {
		t.Errorf("X-Selected-Preset = %q", got)
	}
	if rec.Body.Len() != 40*1024 {
		t.Errorf("body = %d bytes", rec.Body.Len())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "scan_compressed.pdf") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/compress", "scan.pdf", samplePDF(), nil))
	if rec.Code != http.StatusOK || rec.Header().Get("X-Selected-Preset") != "ebook" {
		t.Errorf("default preset: code = %d, preset = %q", rec.Code, rec.Header().Get("X-Selected-Preset"))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/compress", "scan.pdf", samplePDF(), map[string]string{"preset": "ultra"}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown preset: code = %d", rec.Code)
	}

	assertEmptyDir(t, tempDir)
}

// resolutionCompressor при заданном dpi пишет файл размером dpi KB
type resolutionCompressor struct {
	sizes sizedCompressor
	dpi   int
}

func (r resolutionCompressor) WithImageDPI(dpi int) repositories.DocumentCompressor {
	return resolutionCompressor{sizes: r.sizes, dpi: dpi}
}

func (r resolutionCompressor) Compress(inputPath, outputPath string, preset entities.QualityPreset) error {
	if r.dpi > 0 {
		return os.WriteFile(outputPath, bytes.Repeat([]byte{'x'}, r.dpi*1024), 0644)
	}
	return r.sizes.Compress(inputPath, outputPath, preset)
}

func TestHandleCompressImageDPI(t *testing.T) {
	tests := []struct {
		name     string
		dpi      string
		adjust   bool
		wantCode int
		wantKB   int
	}{
		{"preset resolution", "", true, http.StatusOK, 20},
		{"explicit zero", "0", true, http.StatusOK, 20},
		{"custom resolution", " 96 ", true, http.StatusOK, 96},
		{"not a number", "high", true, http.StatusBadRequest, 0},
		{"negative", "-72", true, http.StatusBadRequest, 0},
		{"above limit", "5000", true, http.StatusBadRequest, 0},
		{"engine without resolution control", "96", false, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			fileRepo := infra.NewFileSystemRepository()
			sizes := sizedCompressor{entities.PresetEbook: 20}

			var compressor repositories.DocumentCompressor = sizes
			if tt.adjust {
				compressor = resolutionCompressor{sizes: sizes}
			}
			services := Services{
				Target:   usecases.NewCompressToTargetUseCase(compressor, fileRepo, nil),
				Compress: usecases.NewCompressPDFUseCase(compressor, fileRepo, infra.NewConfigRepository("")),
			}
			router := NewRouter(NewHandler(Config{TempDir: tempDir}, services))

			fields := map[string]string{}
			if tt.dpi != "" {
				fields["dpi"] = tt.dpi
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newUpload(t, "/api/pdf/compress", "scan.pdf", samplePDF(), fields))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK && rec.Body.Len() != tt.wantKB*1024 {
				t.Errorf("body = %d bytes, want %d KB", rec.Body.Len(), tt.wantKB)
			}
			if tt.wantCode != http.StatusOK && !strings.Contains(errorMessage(t, rec), "DPI") {
				t.Errorf("error = %q, want DPI message", errorMessage(t, rec))
			}
			assertEmptyDir(t, tempDir)
		})
	}
}

func TestHandleOptimize(t *testing.T) {
	router, _ := newTestRouter(t, sizedCompressor{}, false, 0)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/optimize", "a.pdf", samplePDF(), nil))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("without optimizer: code = %d", rec.Code)
	}

	router, tempDir := newTestRouter(t, sizedCompressor{}, true, 0)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/optimize", "a.pdf", samplePDF(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d: %s", rec.Code, rec.Body.String())
	}
	body, _ := io.ReadAll(rec.Body)
	if !bytes.Equal(body, samplePDF()) {
		t.Error("optimized body differs from the copy")
	}
	assertEmptyDir(t, tempDir)
}

func TestUploadValidation(t *testing.T) {
	sizes := sizedCompressor{entities.PresetScreen: 1}

	router, _ := newTestRouter(t, sizes, false, 0)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/target", "photo.pdf", []byte("\x89PNG\r\n"), map[string]string{"target_kb": "10"}))
	if rec.Code != http.StatusBadRequest || !strings.Contains(errorMessage(t, rec), "%PDF") {
		t.Errorf("bad header: code = %d %s", rec.Code, rec.Body.String())
	}

	router, _ = newTestRouter(t, sizes, false, 64)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, newUpload(t, "/api/pdf/target", "big.pdf", samplePDF(), map[string]string{"target_kb": "10"}))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("too large: code = %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/pdf/compress", strings.NewReader(""))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no file: code = %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "__etc_passwd"},
		{"dir\\file.pdf", "dir_file.pdf"},
		{"  ", "document.pdf"},
		{"..", "document.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := downloadName("Отчет.PDF", "optimized"); got != "Отчет_optimized.pdf" {
		t.Errorf("downloadName() = %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", entities.ErrCompressionFailed), http.StatusUnprocessableEntity},
		{entities.ErrUnknownPreset, http.StatusBadRequest},
		{fmt.Errorf("%w: 9000", entities.ErrInvalidImageDPI), http.StatusBadRequest},
		{entities.ErrCompressorMissing, http.StatusServiceUnavailable},
		{os.ErrPermission, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
