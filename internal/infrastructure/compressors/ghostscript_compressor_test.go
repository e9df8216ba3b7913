package compressors

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"shrinker/internal/domain/entities"
)

const outputArgLoop = `for a in "$@"; do case "$a" in -sOutputFile=*) out="${a#-sOutputFile=}";; esac; done
`

// fakeGhostscript создает исполняемый скрипт, имитирующий gs
func fakeGhostscript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "gs")
	script := "#!/bin/sh\n" + outputArgLoop + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestGhostscriptCompressor_Args(t *testing.T) {
	g := NewGhostscriptCompressor("gs", 0)
	args := g.Args("in.pdf", "out.pdf", entities.PresetPrinter)

	want := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/printer",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=out.pdf",
		"in.pdf",
	}
	if len(args) != len(want) {
		t.Fatalf("Args() = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestGhostscriptCompressor_ArgsWithImageDPI(t *testing.T) {
	tests := []struct {
		name string
		dpi  int
		want []string
	}{
		{
			name: "preset resolution",
			dpi:  0,
			want: []string{"-dPDFSETTINGS=/ebook", "-dNOPAUSE"},
		},
		{
			name: "negative keeps preset",
			dpi:  -5,
			want: []string{"-dPDFSETTINGS=/ebook", "-dNOPAUSE"},
		},
		{
			name: "custom resolution",
			dpi:  96,
			want: []string{
				"-dPDFSETTINGS=/ebook",
				"-dDownsampleColorImages=true",
				"-dColorImageResolution=96",
				"-dDownsampleGrayImages=true",
				"-dGrayImageResolution=96",
				"-dDownsampleMonoImages=true",
				"-dMonoImageResolution=96",
				"-dNOPAUSE",
			},
		},
	}

	base := NewGhostscriptCompressor("gs", 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := base.WithImageDPI(tt.dpi).(*GhostscriptCompressor)
			if !ok {
				t.Fatalf("WithImageDPI() returned %T", base.WithImageDPI(tt.dpi))
			}
			args := g.Args("in.pdf", "out.pdf", entities.PresetEbook)

			if len(args) != len(tt.want)+6 {
				t.Fatalf("Args() = %v", args)
			}
			for i, w := range tt.want {
				if args[i+2] != w {
					t.Errorf("arg[%d] = %q, want %q", i+2, args[i+2], w)
				}
			}
			if last := args[len(args)-1]; last != "in.pdf" {
				t.Errorf("last arg = %q, want input path", last)
			}
		})
	}

	if got := base.Args("in.pdf", "out.pdf", entities.PresetEbook); len(got) != 8 {
		t.Errorf("WithImageDPI modified the original compressor: %v", got)
	}
}

func TestGhostscriptCompressor_Compress(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		timeout  time.Duration
		wantErr  bool
		wantFile bool
	}{
		{
			name:     "success",
			body:     `printf '%%PDF-1.4' > "$out"`,
			wantFile: true,
		},
		{
			name:    "non-zero exit",
			body:    `echo "Unrecoverable error" >&2; exit 1`,
			wantErr: true,
		},
		{
			name:    "no output file",
			body:    `exit 0`,
			wantErr: true,
		},
		{
			name:    "timeout",
			body:    `exec sleep 5`,
			timeout: 200 * time.Millisecond,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGhostscriptCompressor(fakeGhostscript(t, tt.body), tt.timeout)
			dir := t.TempDir()
			out := filepath.Join(dir, "out_screen.pdf")

			err := g.Compress(filepath.Join(dir, "in.pdf"), out, entities.PresetScreen)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, entities.ErrCompressionFailed) {
				t.Errorf("error = %v, want ErrCompressionFailed", err)
			}

			_, statErr := os.Stat(out)
			if tt.wantFile && statErr != nil {
				t.Errorf("output missing: %v", statErr)
			}
		})
	}
}

func TestGhostscriptCompressor_Unavailable(t *testing.T) {
	g := NewGhostscriptCompressor("", 0)
	if g.IsAvailable() {
		t.Error("IsAvailable() = true for empty binary")
	}
	if err := g.Compress("in.pdf", "out.pdf", entities.PresetEbook); !errors.Is(err, entities.ErrCompressorMissing) {
		t.Errorf("error = %v, want ErrCompressorMissing", err)
	}

	g = NewGhostscriptCompressor("gs", 0)
	if err := g.Compress("in.pdf", "out.pdf", entities.QualityPreset("max")); !errors.Is(err, entities.ErrUnknownPreset) {
		t.Errorf("error = %v, want ErrUnknownPreset", err)
	}
}

func TestLocateGhostscript_Configured(t *testing.T) {
	script := fakeGhostscript(t, "exit 0")

	got, err := LocateGhostscript(script)
	if err != nil || got != script {
		t.Errorf("LocateGhostscript(%q) = %q, %v", script, got, err)
	}

	if _, err := LocateGhostscript(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, entities.ErrCompressorMissing) {
		t.Errorf("error = %v, want ErrCompressorMissing", err)
	}
}

func TestLocateGhostscript_Path(t *testing.T) {
	script := fakeGhostscript(t, "exit 0")
	t.Setenv("PATH", filepath.Dir(script))

	got, err := LocateGhostscript("")
	if err != nil || got != script {
		t.Errorf("LocateGhostscript() = %q, %v", got, err)
	}

	t.Setenv("PATH", t.TempDir())
	if _, err := LocateGhostscript(""); !errors.Is(err, entities.ErrCompressorMissing) {
		t.Errorf("error = %v, want ErrCompressorMissing", err)
	}
}
