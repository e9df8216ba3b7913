package tui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"shrinker/internal/domain/entities"
)

// Порядок полей формы конфигурации
const (
	fieldSource = iota
	fieldTarget
	fieldReplace
	fieldEngine
	fieldLicense
	fieldMode
	fieldTargetKB
	fieldPreset
	fieldImageDPI
	fieldWorkers
	fieldTimeout
	fieldAutoStart
	fieldJPEG
	fieldPNG
	fieldImageQuality
	fieldResize
)

var (
	engineOptions = []string{entities.EngineGhostscript, entities.EngineUniPDF}
	modeOptions   = []string{entities.ModeTarget, entities.ModePreset}
	resizeOptions = []string{"100", "90", "80", "75", "60", "50", "40", "25"}
)

// optionIndex индекс значения в списке, 0 если не найдено
func optionIndex(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return 0
}

// parseBounded разбирает целое в диапазоне [lo, hi]
func parseBounded(text string, lo, hi int) (int, bool) {
	v, err := strconv.Atoi(text)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	cfg := m.config

	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", cfg.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddInputField("Целевая директория", cfg.Scanner.TargetDirectory, 60, nil, func(text string) {
			m.config.Scanner.TargetDirectory = text
		}).
		AddCheckbox("Заменить оригинал", cfg.Scanner.ReplaceOriginal, func(checked bool) {
			m.config.Scanner.ReplaceOriginal = checked
		}).
		AddDropDown("Движок", engineOptions, optionIndex(engineOptions, cfg.Compression.Engine), func(option string, _ int) {
			m.config.Compression.Engine = option
			m.updateLicenseFieldVisibility()
		}).
		AddInputField("Лицензия UniPDF (UNIDOC_LICENSE_API_KEY)", cfg.Compression.UniPDFLicenseKey, 60, nil, func(text string) {
			m.config.Compression.UniPDFLicenseKey = text
		}).
		AddDropDown("Режим", modeOptions, optionIndex(modeOptions, cfg.Compression.Mode), func(option string, _ int) {
			m.config.Compression.Mode = option
		}).
		AddInputField("Целевой размер (KB)", strconv.FormatInt(cfg.Compression.TargetKB, 10), 10, tview.InputFieldInteger, func(text string) {
			if kb, err := strconv.ParseInt(text, 10, 64); err == nil && kb > 0 {
				m.config.Compression.TargetKB = kb
			}
		}).
		AddDropDown("Пресет", entities.PresetNames(), optionIndex(entities.PresetNames(), cfg.Compression.Preset), func(option string, _ int) {
			m.config.Compression.Preset = option
		}).
		AddInputField("Разрешение изображений PDF, DPI (0 - по пресету)", strconv.Itoa(cfg.Compression.ImageDPI), 5, tview.InputFieldInteger, func(text string) {
			if v, ok := parseBounded(text, 0, entities.MaxImageDPI); ok {
				m.config.Compression.ImageDPI = v
			}
		}).
		AddInputField("Параллельных воркеров", strconv.Itoa(cfg.Processing.ParallelWorkers), 5, tview.InputFieldInteger, func(text string) {
			if v, ok := parseBounded(text, 1, 64); ok {
				m.config.Processing.ParallelWorkers = v
			}
		}).
		AddInputField("Таймаут пробы, сек (0 - нет)", strconv.Itoa(cfg.Processing.TimeoutSeconds), 5, tview.InputFieldInteger, func(text string) {
			if v, ok := parseBounded(text, 0, 3600); ok {
				m.config.Processing.TimeoutSeconds = v
			}
		}).
		AddCheckbox("Автостарт", cfg.Compression.AutoStart, func(checked bool) {
			m.config.Compression.AutoStart = checked
		}).
		AddCheckbox("Сжимать JPEG", cfg.Images.EnableJPEG, func(checked bool) {
			m.config.Images.EnableJPEG = checked
		}).
		AddCheckbox("Сжимать PNG", cfg.Images.EnablePNG, func(checked bool) {
			m.config.Images.EnablePNG = checked
		}).
		AddInputField("Качество изображений (1-100)", strconv.Itoa(cfg.Images.Quality), 5, tview.InputFieldInteger, func(text string) {
			if v, ok := parseBounded(text, 1, 100); ok {
				m.config.Images.Quality = v
			}
		}).
		AddDropDown("Масштаб изображений (%)", resizeOptions, optionIndex(resizeOptions, strconv.Itoa(cfg.Images.ResizePercent)), func(option string, _ int) {
			if v, err := strconv.Atoi(option); err == nil {
				m.config.Images.ResizePercent = v
			}
		}).
		AddButton("Сохранить", func() {
			m.saveConfig()
			m.switchToScreen(entities.UIScreenMenu)
			m.mainMenu.SetCurrentItem(1)
		})

	m.updateLicenseFieldVisibility()

	m.configForm.SetBorder(true).
		SetTitle("🗜 Shrinker - Конфигурация (ESC - выйти без сохранения)").
		SetTitleAlign(tview.AlignCenter)

	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			m.reloadConfig()
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		}
		return event
	})
}

// updateLicenseFieldVisibility выделяет поле лицензии, когда выбран UniPDF
func (m *Manager) updateLicenseFieldVisibility() {
	if m.configForm == nil || m.configForm.GetFormItemCount() <= fieldLicense {
		return
	}

	licenseField, ok := m.configForm.GetFormItem(fieldLicense).(*tview.InputField)
	if !ok {
		return
	}

	if m.config.Compression.Engine == entities.EngineUniPDF {
		licenseField.SetLabel("🔑 Лицензия UniPDF - ОБЯЗАТЕЛЬНО")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkBlue)
	} else {
		licenseField.SetLabel("Лицензия UniPDF (не требуется для Ghostscript)")
		licenseField.SetFieldBackgroundColor(tcell.ColorDarkGray)
	}
}

// refreshConfigForm синхронизирует значения формы с текущей конфигурацией
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}
	cfg := m.config

	setText := func(index int, text string) {
		if item, ok := m.configForm.GetFormItem(index).(*tview.InputField); ok {
			item.SetText(text)
		}
	}
	setChecked := func(index int, checked bool) {
		if item, ok := m.configForm.GetFormItem(index).(*tview.Checkbox); ok {
			item.SetChecked(checked)
		}
	}
	setOption := func(index int, options []string, value string) {
		if item, ok := m.configForm.GetFormItem(index).(*tview.DropDown); ok {
			item.SetCurrentOption(optionIndex(options, value))
		}
	}

	setText(fieldSource, cfg.Scanner.SourceDirectory)
	setText(fieldTarget, cfg.Scanner.TargetDirectory)
	setChecked(fieldReplace, cfg.Scanner.ReplaceOriginal)
	setOption(fieldEngine, engineOptions, cfg.Compression.Engine)
	setText(fieldLicense, cfg.Compression.UniPDFLicenseKey)
	setOption(fieldMode, modeOptions, cfg.Compression.Mode)
	setText(fieldTargetKB, strconv.FormatInt(cfg.Compression.TargetKB, 10))
	setOption(fieldPreset, entities.PresetNames(), cfg.Compression.Preset)
	setText(fieldImageDPI, strconv.Itoa(cfg.Compression.ImageDPI))
	setText(fieldWorkers, strconv.Itoa(cfg.Processing.ParallelWorkers))
	setText(fieldTimeout, strconv.Itoa(cfg.Processing.TimeoutSeconds))
	setChecked(fieldAutoStart, cfg.Compression.AutoStart)
	setChecked(fieldJPEG, cfg.Images.EnableJPEG)
	setChecked(fieldPNG, cfg.Images.EnablePNG)
	setText(fieldImageQuality, strconv.Itoa(cfg.Images.Quality))
	setOption(fieldResize, resizeOptions, strconv.Itoa(cfg.Images.ResizePercent))

	m.updateLicenseFieldVisibility()
}
