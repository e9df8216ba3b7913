package repositories

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shrinker/internal/domain/entities"
)

func writeSized(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSizeKB(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSystemRepository()

	tests := []struct {
		name  string
		bytes int
		want  int64
	}{
		{"empty", 0, 0},
		{"below one KB", 1023, 0},
		{"exact", 2048, 2},
		{"rounded down", 3*1024 + 1000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			writeSized(t, path, tt.bytes)

			got, err := repo.SizeKB(path)
			if err != nil {
				t.Fatalf("SizeKB: %v", err)
			}
			if got != tt.want {
				t.Errorf("SizeKB = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := repo.SizeKB(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMoveAndRemove(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSystemRepository()

	src := filepath.Join(dir, "a.pdf")
	dst := filepath.Join(dir, "b.pdf")
	writeSized(t, src, 10)
	writeSized(t, dst, 99)

	if err := repo.Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if repo.FileExists(src) {
		t.Error("source must not exist after move")
	}
	info, err := os.Stat(dst)
	if err != nil || info.Size() != 10 {
		t.Fatalf("destination must be overwritten, got %v %v", info, err)
	}

	if err := repo.Remove(dst); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := repo.Remove(dst); err != nil {
		t.Errorf("Remove of missing file must succeed, got %v", err)
	}
}

func TestGetFileInfoUsesPageCounter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	writeSized(t, path, 100)

	repo := &FileSystemRepository{pageCount: func(string) (int, error) { return 7, nil }}
	doc, err := repo.GetFileInfo(path)
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if doc.Pages != 7 || doc.Size != 100 {
		t.Errorf("unexpected document: %+v", doc)
	}

	repo.pageCount = func(string) (int, error) { return 0, errors.New("broken") }
	doc, err = repo.GetFileInfo(path)
	if err != nil {
		t.Fatalf("page count failure must not fail GetFileInfo: %v", err)
	}
	if doc.Pages != 0 {
		t.Errorf("Pages = %d, want 0", doc.Pages)
	}
}

func TestListPDFFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeSized(t, filepath.Join(dir, "b.pdf"), 1)
	writeSized(t, filepath.Join(dir, "a.PDF"), 1)
	writeSized(t, filepath.Join(dir, "nested", "c.pdf"), 1)
	writeSized(t, filepath.Join(dir, "note.txt"), 1)

	files, err := NewFileSystemRepository().ListPDFFiles(dir)
	if err != nil {
		t.Fatalf("ListPDFFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.PDF" {
		t.Errorf("expected sorted output, got %v", files)
	}
}

func TestConfigRepository(t *testing.T) {
	repo := NewConfigRepository("key")

	cfg, err := repo.GetCompressionConfig(entities.PresetEbook)
	if err != nil {
		t.Fatalf("GetCompressionConfig: %v", err)
	}
	if cfg.UniPDFLicenseKey != "key" || cfg.Preset != entities.PresetEbook {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if err := repo.ValidateConfig(cfg); err != nil {
		t.Errorf("ValidateConfig: %v", err)
	}

	if _, err := repo.GetCompressionConfig("ultra"); !errors.Is(err, entities.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestTempPath(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSystemRepository()
	writeSized(t, filepath.Join(dir, "out_screen.pdf"), 10)

	tests := []struct {
		name    string
		dir     string
		pattern string
		wantErr bool
	}{
		{"preset pattern", dir, ".out_screen_*.pdf", false},
		{"no extension", dir, ".out_ebook_*", false},
		{"missing directory", filepath.Join(dir, "missing"), ".out_screen_*.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := repo.TempPath(tt.dir, tt.pattern)
			if tt.wantErr {
				if err == nil {
					t.Errorf("TempPath() = %q, want error", first)
				}
				return
			}
			if err != nil {
				t.Fatalf("TempPath: %v", err)
			}
			second, err := repo.TempPath(tt.dir, tt.pattern)
			if err != nil {
				t.Fatalf("TempPath: %v", err)
			}

			if first == second {
				t.Errorf("TempPath returned %q twice", first)
			}
			for _, p := range []string{first, second} {
				if filepath.Dir(p) != tt.dir || filepath.Base(p) == "out_screen.pdf" {
					t.Errorf("TempPath = %q", p)
				}
				if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("%s exists after TempPath: %v", p, err)
				}
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "out_screen.pdf")); err != nil {
		t.Errorf("sibling removed: %v", err)
	}
}
