package main

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/pflag"

	"shrinker/internal/domain/entities"
	"shrinker/internal/infrastructure/compressors"
	"shrinker/internal/infrastructure/config"
)

type fakeRunner struct {
	err     error
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (r *fakeRunner) Execute(*entities.Config) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.started != nil {
		close(r.started)
		<-r.release
	}
	return r.err
}

func (r *fakeRunner) GetSupportedFileTypes(*entities.Config) []string { return []string{"PDF"} }

func TestApplicationProcessor_ReportsFailures(t *testing.T) {
	buildErr := errors.New("ghostscript не найден")
	runErr := errors.New("директория не найдена")

	tests := []struct {
		name    string
		build   error
		run     error
		wantErr error
	}{
		{name: "success"},
		{name: "build error", build: buildErr, wantErr: buildErr},
		{name: "run error", run: runErr, wantErr: runErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{err: tt.run}
			var failures []error

			p := NewApplicationProcessor(
				config.Default,
				func(*entities.Config) (Runner, error) {
					if tt.build != nil {
						return nil, tt.build
					}
					return runner, nil
				},
				func(err error) { failures = append(failures, err) },
				nil,
			)
			p.StartProcessing()
			p.Shutdown()

			if tt.wantErr == nil {
				if len(failures) != 0 || runner.calls != 1 {
					t.Errorf("failures = %v, calls = %d", failures, runner.calls)
				}
				return
			}
			if len(failures) != 1 || !errors.Is(failures[0], tt.wantErr) {
				t.Errorf("failures = %v, want %v", failures, tt.wantErr)
			}
		})
	}
}

func TestApplicationProcessor_SingleRun(t *testing.T) {
	runner := &fakeRunner{started: make(chan struct{}), release: make(chan struct{})}
	p := NewApplicationProcessor(
		config.Default,
		func(*entities.Config) (Runner, error) { return runner, nil },
		nil,
		nil,
	)

	done := make(chan struct{})
	go func() {
		p.StartProcessing()
		close(done)
	}()
	<-runner.started

	if !p.IsRunning() {
		t.Error("IsRunning() = false during execution")
	}
	p.StartProcessing()

	close(runner.release)
	<-done
	p.Shutdown()

	if runner.calls != 1 {
		t.Errorf("calls = %d, want 1", runner.calls)
	}

	// После Shutdown новые запуски игнорируются
	p.StartProcessing()
	if runner.calls != 1 {
		t.Errorf("calls after shutdown = %d", runner.calls)
	}
}

func TestApplyOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVar(&engineName, "engine", "", "")
	flags.StringVar(&ghostscriptBin, "gs", "", "")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "")
	flags.StringVar(&logLevel, "log-level", "", "")
	flags.IntVar(&imageDPI, "dpi", 0, "")

	if err := flags.Parse([]string{"--engine", "unipdf", "--timeout", "30", "--dpi", "96"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Compression.GhostscriptPath = "/opt/gs"
	applyOverrides(flags, cfg)

	if cfg.Compression.Engine != entities.EngineUniPDF {
		t.Errorf("Engine = %q", cfg.Compression.Engine)
	}
	if cfg.Processing.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d", cfg.Processing.TimeoutSeconds)
	}
	if cfg.Compression.ImageDPI != 96 {
		t.Errorf("ImageDPI = %d", cfg.Compression.ImageDPI)
	}
	if cfg.Compression.GhostscriptPath != "/opt/gs" {
		t.Errorf("unset flag overrode GhostscriptPath: %q", cfg.Compression.GhostscriptPath)
	}
	if cfg.Output.LogLevel != "info" {
		t.Errorf("unset flag overrode LogLevel: %q", cfg.Output.LogLevel)
	}
}

func TestNewDocumentCompressor(t *testing.T) {
	cfg := config.Default()
	cfg.Compression.Engine = entities.EngineUniPDF
	c, err := newDocumentCompressor(cfg)
	if err != nil {
		t.Fatalf("unipdf: %v", err)
	}
	if _, ok := c.(*compressors.UniPDFCompressor); !ok {
		t.Errorf("unipdf engine = %T", c)
	}

	cfg.Compression.Engine = entities.EngineGhostscript
	cfg.Compression.GhostscriptPath = filepath.Join(t.TempDir(), "missing-gs")
	if _, err := newDocumentCompressor(cfg); !errors.Is(err, entities.ErrCompressorMissing) {
		t.Errorf("missing gs: err = %v", err)
	}

	cfg.Compression.Engine = "lame"
	if _, err := newDocumentCompressor(cfg); !errors.Is(err, entities.ErrInvalidEngine) {
		t.Errorf("unknown engine: err = %v", err)
	}
}

func TestNewDocumentCompressorImageDPI(t *testing.T) {
	tests := []struct {
		name    string
		dpi     int
		wantPPI float64
		wantErr error
	}{
		{"preset resolution", 0, 150, nil},
		{"custom resolution", 110, 110, nil},
		{"negative", -20, 0, entities.ErrInvalidImageDPI},
		{"above limit", 9600, 0, entities.ErrInvalidImageDPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Compression.Engine = entities.EngineUniPDF
			cfg.Compression.ImageDPI = tt.dpi

			c, err := newDocumentCompressor(cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("newDocumentCompressor: %v", err)
			}

			u, ok := c.(*compressors.UniPDFCompressor)
			if !ok {
				t.Fatalf("engine = %T", c)
			}
			if got := u.Options(entities.PresetEbook).ImageUpperPPI; got != tt.wantPPI {
				t.Errorf("ImageUpperPPI = %v, want %v", got, tt.wantPPI)
			}
		})
	}
}
