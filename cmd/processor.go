package main

import (
	"context"
	"sync"
	"sync/atomic"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// Runner пакетная обработка, запускаемая из интерфейса
type Runner interface {
	Execute(config *entities.Config) error
	GetSupportedFileTypes(config *entities.Config) []string
}

// ApplicationProcessor запускает пакетную обработку по команде интерфейса.
// Runner собирается заново на каждый запуск, потому что конфигурация
// (движок, путь к Ghostscript) могла измениться в форме настроек.
type ApplicationProcessor struct {
	configSource func() *entities.Config
	buildRunner  func(config *entities.Config) (Runner, error)
	onFailure    func(err error)
	logger       repositories.Logger

	running atomic.Bool

	// Graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewApplicationProcessor создает новый процессор приложения
func NewApplicationProcessor(
	configSource func() *entities.Config,
	buildRunner func(config *entities.Config) (Runner, error),
	onFailure func(err error),
	logger repositories.Logger,
) *ApplicationProcessor {
	ctx, cancel := context.WithCancel(context.Background())

	return &ApplicationProcessor{
		configSource: configSource,
		buildRunner:  buildRunner,
		onFailure:    onFailure,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// StartProcessing запускает обработку всех поддерживаемых файлов.
// Повторный вызов во время работы игнорируется.
func (p *ApplicationProcessor) StartProcessing() {
	if p.ctx.Err() != nil {
		return
	}
	if !p.running.CompareAndSwap(false, true) {
		p.logWarning("Обработка уже запущена")
		return
	}
	defer p.running.Store(false)

	p.wg.Add(1)
	defer p.wg.Done()

	config := p.configSource()

	runner, err := p.buildRunner(config)
	if err != nil {
		p.fail(err)
		return
	}

	p.logInfo("Запуск обработки файлов. Поддерживаемые типы: %v", runner.GetSupportedFileTypes(config))

	if err := runner.Execute(config); err != nil {
		p.fail(err)
		return
	}

	if p.logger != nil {
		p.logger.Success("Обработка файлов завершена успешно")
	}
}

// IsRunning сообщает, идет ли обработка
func (p *ApplicationProcessor) IsRunning() bool {
	return p.running.Load()
}

// Shutdown корректно завершает работу процессора
func (p *ApplicationProcessor) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func (p *ApplicationProcessor) fail(err error) {
	if p.logger != nil {
		p.logger.Error("Ошибка обработки: %v", err)
	}
	if p.onFailure != nil {
		p.onFailure(err)
	}
}

func (p *ApplicationProcessor) logInfo(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(format, args...)
	}
}

func (p *ApplicationProcessor) logWarning(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warning(format, args...)
	}
}
