package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// CompressToTargetUseCase подбирает пресет, при котором PDF укладывается в целевой размер
type CompressToTargetUseCase struct {
	compressor    repositories.DocumentCompressor
	fileRepo      repositories.FileRepository
	logger        repositories.Logger
	presets       []entities.QualityPreset
	probeReporter func(entities.ProbeEvent)
}

// NewCompressToTargetUseCase создает сценарий поиска по целевому размеру
func NewCompressToTargetUseCase(
	compressor repositories.DocumentCompressor,
	fileRepo repositories.FileRepository,
	logger repositories.Logger,
) *CompressToTargetUseCase {
	return &CompressToTargetUseCase{
		compressor: compressor,
		fileRepo:   fileRepo,
		logger:     logger,
		presets:    entities.AllPresets(),
	}
}

// SetProbeReporter устанавливает функцию, вызываемую после каждой пробы
func (uc *CompressToTargetUseCase) SetProbeReporter(reporter func(entities.ProbeEvent)) {
	uc.probeReporter = reporter
}

func (uc *CompressToTargetUseCase) reportProbe(event entities.ProbeEvent) {
	if uc.probeReporter != nil {
		uc.probeReporter(event)
	}
}

// DefaultTargetOutputPath путь результата по умолчанию: <source>_compressed_target.pdf
func DefaultTargetOutputPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + "_compressed_target.pdf"
}

// ProbePattern шаблон имени временного файла пробы рядом с destination:
// скрытый файл .<имя>_<пресет>_*<ext>, где * заменяется случайным суффиксом
func ProbePattern(destinationPath string, preset entities.QualityPreset) string {
	ext := filepath.Ext(destinationPath)
	base := strings.TrimSuffix(filepath.Base(destinationPath), ext)
	return "." + base + "_" + preset.String() + "_*" + ext
}

// Execute перебирает пресеты от самого агрессивного и возвращает первый результат,
// не превышающий targetKB, либо ближайший к нему. Если ни одна проба не удалась,
// возвращается исход со статусом OutcomeNone и без ошибки.
// Ошибка возвращается только при сбое перемещения итогового файла.
func (uc *CompressToTargetUseCase) Execute(sourcePath, destinationPath string, targetKB int64) (*entities.TargetOutcome, error) {
	if destinationPath == "" {
		destinationPath = DefaultTargetOutputPath(sourcePath)
	}

	outcome := &entities.TargetOutcome{
		Status:   entities.OutcomeNone,
		TargetKB: targetKB,
	}

	uc.logInfo("Подбор пресета для %s, цель %d KB", filepath.Base(sourcePath), targetKB)

	total := len(uc.presets)
	selected := -1

	for i, preset := range uc.presets {
		event := entities.ProbeEvent{
			Source:   sourcePath,
			Index:    i,
			Total:    total,
			Preset:   preset,
			TargetKB: targetKB,
		}

		probePath, err := uc.fileRepo.TempPath(filepath.Dir(destinationPath), ProbePattern(destinationPath, preset))
		if err != nil {
			uc.logWarning("Пресет %s: не удалось выбрать временный файл: %v", preset, err)
			event.Err = err
			uc.reportProbe(event)
			continue
		}
		event.Path = probePath

		outcome.Attempts++
		probe, err := uc.probe(sourcePath, probePath, preset)
		if err != nil {
			uc.logWarning("Пресет %s: %v", preset, err)
			event.Err = err
			uc.reportProbe(event)
			continue
		}

		outcome.Probes = append(outcome.Probes, probe)
		event.Success = true
		event.SizeKB = probe.SizeKB

		// targetKB <= 0 недостижим, такие поиски всегда уходят в fallback
		if targetKB > 0 && probe.SizeKB <= targetKB {
			event.Accepted = true
			uc.reportProbe(event)
			uc.logDebug("Пресет %s: %d KB, укладывается в %d KB", preset, probe.SizeKB, targetKB)
			selected = len(outcome.Probes) - 1
			outcome.Status = entities.OutcomeAccepted
			break
		}

		uc.reportProbe(event)
		uc.logDebug("Пресет %s: %d KB", preset, probe.SizeKB)
	}

	if len(outcome.Probes) == 0 {
		uc.logError("Ни один пресет не дал результата для %s", filepath.Base(sourcePath))
		return outcome, nil
	}

	if selected < 0 {
		selected = closestProbe(outcome.Probes, targetKB)
		outcome.Status = entities.OutcomeClosest
	}

	chosen := outcome.Probes[selected]
	moveErr := uc.fileRepo.Move(chosen.Path, destinationPath)

	for i, probe := range outcome.Probes {
		if i == selected && moveErr == nil {
			continue
		}
		if err := uc.fileRepo.Remove(probe.Path); err != nil {
			uc.logWarning("Не удалось удалить временный файл %s: %v", probe.Path, err)
		}
	}

	if moveErr != nil {
		outcome.Status = entities.OutcomeNone
		outcome.Probes = nil
		return outcome, fmt.Errorf("не удалось переместить результат в %s: %w", destinationPath, moveErr)
	}

	outcome.Selected = &chosen
	outcome.Path = destinationPath

	if outcome.Status == entities.OutcomeAccepted {
		uc.logSuccess("✓ %s: пресет %s, %d KB <= %d KB", filepath.Base(destinationPath), chosen.Preset, chosen.SizeKB, targetKB)
	} else {
		uc.logWarning("Цель %d KB не достигнута, выбран ближайший пресет %s (%d KB)", targetKB, chosen.Preset, chosen.SizeKB)
	}

	return outcome, nil
}

// probe выполняет одну попытку сжатия. Частичный файл после сбоя удаляется.
func (uc *CompressToTargetUseCase) probe(sourcePath, probePath string, preset entities.QualityPreset) (entities.ProbeResult, error) {
	if err := uc.compressor.Compress(sourcePath, probePath, preset); err != nil {
		_ = uc.fileRepo.Remove(probePath)
		return entities.ProbeResult{}, err
	}

	if !uc.fileRepo.FileExists(probePath) {
		return entities.ProbeResult{}, fmt.Errorf("%w: выходной файл не создан", entities.ErrCompressionFailed)
	}

	sizeKB, err := uc.fileRepo.SizeKB(probePath)
	if err != nil {
		_ = uc.fileRepo.Remove(probePath)
		return entities.ProbeResult{}, fmt.Errorf("не удалось получить размер %s: %w", probePath, err)
	}

	return entities.ProbeResult{Preset: preset, Path: probePath, SizeKB: sizeKB}, nil
}

// closestProbe индекс пробы с минимальным |size - target|; при равенстве побеждает первая
func closestProbe(probes []entities.ProbeResult, targetKB int64) int {
	best := 0
	for i := 1; i < len(probes); i++ {
		if probes[i].Distance(targetKB) < probes[best].Distance(targetKB) {
			best = i
		}
	}
	return best
}

func (uc *CompressToTargetUseCase) logDebug(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Debug(format, args...)
	}
}

func (uc *CompressToTargetUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *CompressToTargetUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *CompressToTargetUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}

func (uc *CompressToTargetUseCase) logError(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Error(format, args...)
	}
}
