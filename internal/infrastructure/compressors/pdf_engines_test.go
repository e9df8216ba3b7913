package compressors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"shrinker/internal/domain/entities"
)

func TestUniPDFCompressor_Options(t *testing.T) {
	u := NewUniPDFCompressor("key")

	tests := []struct {
		preset  entities.QualityPreset
		ppi     float64
		quality int
	}{
		{entities.PresetScreen, 72, 40},
		{entities.PresetEbook, 150, 60},
		{entities.PresetPrinter, 300, 80},
		{entities.PresetPrepress, 300, 90},
		{entities.PresetDefault, 0, 95},
	}
	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			opts := u.Options(tt.preset)
			if opts.ImageUpperPPI != tt.ppi || opts.ImageQuality != tt.quality {
				t.Errorf("Options(%s) ppi=%v quality=%d, want %v/%d", tt.preset, opts.ImageUpperPPI, opts.ImageQuality, tt.ppi, tt.quality)
			}
			if !opts.CombineDuplicateStreams || !opts.CompressStreams {
				t.Errorf("Options(%s) = %+v, want stream optimisations", tt.preset, opts)
			}
		})
	}
}

func TestUniPDFCompressor_OptionsWithImageDPI(t *testing.T) {
	base := NewUniPDFCompressor("key")

	tests := []struct {
		preset entities.QualityPreset
		dpi    int
		ppi    float64
	}{
		{entities.PresetScreen, 0, 72},
		{entities.PresetScreen, 200, 200},
		{entities.PresetPrinter, 96, 96},
		{entities.PresetDefault, 120, 120},
		{entities.PresetEbook, -1, 150},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.preset, tt.dpi), func(t *testing.T) {
			u, ok := base.WithImageDPI(tt.dpi).(*UniPDFCompressor)
			if !ok {
				t.Fatalf("WithImageDPI() returned %T", base.WithImageDPI(tt.dpi))
			}
			if u.activation != base.activation {
				t.Error("copy does not share license activation")
			}
			if got := u.Options(tt.preset).ImageUpperPPI; got != tt.ppi {
				t.Errorf("ImageUpperPPI = %v, want %v", got, tt.ppi)
			}
		})
	}

	if got := base.Options(entities.PresetScreen).ImageUpperPPI; got != 72 {
		t.Errorf("original compressor changed: ImageUpperPPI = %v", got)
	}
}

func TestUniPDFCompressor_Errors(t *testing.T) {
	t.Setenv("UNIDOC_LICENSE_API_KEY", "")
	u := NewUniPDFCompressor("")

	if err := u.Compress("in.pdf", "out.pdf", entities.QualityPreset("huge")); !errors.Is(err, entities.ErrUnknownPreset) {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}
	if err := u.Compress("in.pdf", "out.pdf", entities.PresetEbook); err == nil {
		t.Error("Compress() without license: error = nil")
	}
}

func TestPDFCPUOptimizer_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(input, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	o := NewPDFCPUOptimizer()
	if err := o.Optimize(input, filepath.Join(dir, "out.pdf")); err == nil {
		t.Error("Optimize() error = nil for broken input")
	}
	if _, err := o.PageCount(input); err == nil {
		t.Error("PageCount() error = nil for broken input")
	}
}

// writeTitledPDF пишет одностраничный PDF со словарем Info
func writeTitledPDF(t *testing.T, path string) {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << >> >>",
		"<< /Title (Quarterly report) /Author (Finance) >>",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPDFCPUOptimizer_Metadata(t *testing.T) {
	tests := []struct {
		name      string
		keep      bool
		wantTitle bool
	}{
		{"removed by default", false, false},
		{"kept on request", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "in.pdf")
			output := filepath.Join(dir, "out.pdf")
			writeTitledPDF(t, input)

			o := NewPDFCPUOptimizer()
			o.SetKeepMetadata(tt.keep)
			if err := o.Optimize(input, output); err != nil {
				t.Fatalf("Optimize: %v", err)
			}

			ctx, err := api.ReadContextFile(output)
			if err != nil {
				t.Fatalf("read output: %v", err)
			}
			if ctx.Info == nil {
				t.Fatal("output has no Info dict")
			}
			info, err := ctx.DereferenceDict(*ctx.Info)
			if err != nil {
				t.Fatalf("Info: %v", err)
			}

			_, hasTitle := info.Find("Title")
			_, hasAuthor := info.Find("Author")
			if hasTitle != tt.wantTitle || hasAuthor != tt.wantTitle {
				t.Errorf("Title present = %v, Author present = %v; want %v", hasTitle, hasAuthor, tt.wantTitle)
			}

			if pages, err := o.PageCount(output); err != nil || pages != 1 {
				t.Errorf("PageCount = %d, %v; want 1", pages, err)
			}
		})
	}
}
