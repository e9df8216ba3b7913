package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"shrinker/internal/domain/entities"
	"shrinker/internal/domain/repositories"
)

// Константы интерфейса
const (
	MaxLogBufferSize   = 1000
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameLength  = 60
	MaxFileNameDisplay = 57
	ProgressViewHeight = 11
)

// Manager управляет TUI интерфейсом пакетной обработки
type Manager struct {
	app           *tview.Application
	pages         *tview.Pages
	currentScreen entities.UIScreen

	mainMenu     *tview.List
	configForm   *tview.Form
	progressView *tview.TextView
	logView      *tview.TextView

	onStartProcessing func()

	configRepo repositories.AppConfigRepository
	configPath string
	config     *entities.Config

	logBuffer    []string
	statusMutex  sync.RWMutex
	isProcessing bool

	logChan  chan string
	logDone  chan struct{}
	logMutex sync.Mutex
}

// NewManager создает новый менеджер TUI
func NewManager(configRepo repositories.AppConfigRepository, configPath string, config *entities.Config) *Manager {
	m := &Manager{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		configRepo: configRepo,
		configPath: configPath,
		config:     config,
		logBuffer:  make([]string, 0, MaxLogBufferSize),
		logChan:    make(chan string, 100),
		logDone:    make(chan struct{}),
	}
	go m.logProcessor()
	return m
}

// Initialize создает экраны и горячие клавиши
func (m *Manager) Initialize() {
	m.createUI()
	m.setupKeyBindings()
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.SetRoot(m.pages, true).EnableMouse(true).Run()
}

// Stop останавливает приложение
func (m *Manager) Stop() {
	m.app.Stop()
}

// SetOnStartProcessing устанавливает callback для начала обработки
func (m *Manager) SetOnStartProcessing(callback func()) {
	m.onStartProcessing = callback
}

// SendStatusUpdate отправляет обновление статуса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.updateProgress(status)
}

// SendProbeEvent выводит результат пробы пресета в журнал
func (m *Manager) SendProbeEvent(event entities.ProbeEvent) {
	level := "DEBUG"
	switch {
	case event.Accepted:
		level = "SUCCESS"
	case !event.Success:
		level = "WARNING"
	}
	m.AddLog(level, formatProbe(event))
}

// formatProbe строка журнала для события пробы
func formatProbe(event entities.ProbeEvent) string {
	name := filepath.Base(event.Source)
	prefix := fmt.Sprintf("%s [%d/%d] %s", name, event.Index+1, event.Total, event.Preset)
	switch {
	case !event.Success:
		return fmt.Sprintf("%s: ошибка: %v", prefix, event.Err)
	case event.Accepted:
		return fmt.Sprintf("%s: %d KB <= %d KB ✓", prefix, event.SizeKB, event.TargetKB)
	default:
		return fmt.Sprintf("%s: %d KB", prefix, event.SizeKB)
	}
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	m.statusMutex.RLock()
	defer m.statusMutex.RUnlock()
	cfg := *m.config
	return &cfg
}

// reloadConfig перечитывает конфигурацию из файла
func (m *Manager) reloadConfig() {
	cfg, err := m.configRepo.Load(m.configPath)
	if err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Ошибка чтения %s: %v", m.configPath, err))
		return
	}
	m.config = cfg
}

// saveConfig сохраняет конфигурацию
func (m *Manager) saveConfig() {
	if err := m.configRepo.Save(m.configPath, m.config); err != nil {
		m.AddLog("ERROR", fmt.Sprintf("Ошибка сохранения %s: %v", m.configPath, err))
	}
}

// createUI создает пользовательский интерфейс
func (m *Manager) createUI() {
	m.createMainMenu()
	m.createConfigScreen()
	m.createProcessingScreen()

	m.pages.AddPage("menu", m.mainMenu, true, true)
	m.pages.AddPage("config", m.configForm, true, false)
	m.pages.AddPage("processing", m.createProcessingLayout(), true, false)

	m.currentScreen = entities.UIScreenMenu
}

// createMainMenu создает главное меню
func (m *Manager) createMainMenu() {
	m.mainMenu = tview.NewList().
		AddItem("🚀 Запуск обработки", "Сжать PDF и изображения исходной директории", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Движок, целевой размер, пресет, изображения", '2', func() {
			m.switchToScreen(entities.UIScreenConfig)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🗜 Shrinker - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// setupKeyBindings настраивает горячие клавиши
func (m *Manager) setupKeyBindings() {
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		case tcell.KeyF2:
			m.switchToScreen(entities.UIScreenConfig)
			return nil
		case tcell.KeyF3:
			if m.isProcessing {
				m.switchToScreen(entities.UIScreenProcessing)
			}
			return nil
		case tcell.KeyEscape:
			// В конфигурации ESC обрабатывается формой
			if m.currentScreen == entities.UIScreenConfig {
				return event
			} else if m.currentScreen != entities.UIScreenMenu {
				m.switchToScreen(entities.UIScreenMenu)
				return nil
			}
		}

		if m.currentScreen == entities.UIScreenMenu {
			switch event.Rune() {
			case '1':
				m.startProcessing()
				return nil
			case '2':
				m.switchToScreen(entities.UIScreenConfig)
				return nil
			case 'q', 'Q':
				m.Cleanup()
				m.app.Stop()
				return nil
			}
		}

		return event
	})
}

// switchToScreen переключает на указанный экран
func (m *Manager) switchToScreen(screen entities.UIScreen) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()

	m.currentScreen = screen

	switch screen {
	case entities.UIScreenMenu:
		m.pages.SwitchToPage("menu")
	case entities.UIScreenConfig:
		m.reloadConfig()
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case entities.UIScreenProcessing:
		m.pages.SwitchToPage("processing")
	}
}

// StartProcessing запускает обработку (используется для автостарта)
func (m *Manager) StartProcessing() {
	m.startProcessing()
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.isProcessing {
		m.switchToScreen(entities.UIScreenProcessing)
		return
	}

	m.saveConfig()
	m.isProcessing = true
	m.switchToScreen(entities.UIScreenProcessing)

	if m.onStartProcessing != nil {
		go m.onStartProcessing()
	}
}

// AddLog добавляет запись в журнал через канал (неблокирующе)
func (m *Manager) AddLog(level, message string) {
	var color string
	switch strings.ToLower(level) {
	case "error":
		color = "red"
	case "warning":
		color = "yellow"
	case "success":
		color = "green"
	case "debug":
		color = "gray"
	default:
		color = "white"
	}

	logLine := fmt.Sprintf("[%s]%s:[white] %s", color, strings.ToUpper(level), tview.Escape(message))

	// При переполнении канала запись отбрасывается
	select {
	case m.logChan <- logLine:
	default:
	}
}

// logProcessor собирает записи журнала в пачки
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	batch := make([]string, 0, 50)

	for {
		select {
		case logLine := <-m.logChan:
			batch = append(batch, logLine)
			if len(batch) >= 20 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
				batch = make([]string, 0, 50)
			}

		case <-m.logDone:
			if len(batch) > 0 {
				m.flushLogBatch(batch)
			}
			return
		}
	}
}

// flushLogBatch сбрасывает пачку записей в журнал на экране
func (m *Manager) flushLogBatch(batch []string) {
	m.statusMutex.Lock()
	m.logBuffer = appendBounded(m.logBuffer, batch, MaxLogBufferSize)
	logText := strings.Join(m.logBuffer, "\n")
	m.statusMutex.Unlock()

	if m.logView != nil {
		m.app.QueueUpdateDraw(func() {
			m.logView.SetText(logText)
			m.logView.ScrollToEnd()
		})
	}
}

// appendBounded добавляет строки, оставляя не более limit последних
func appendBounded(buffer, lines []string, limit int) []string {
	buffer = append(buffer, lines...)
	if len(buffer) > limit {
		buffer = buffer[len(buffer)-limit:]
	}
	return buffer
}

// Cleanup освобождает ресурсы менеджера (идемпотентный)
func (m *Manager) Cleanup() {
	m.logMutex.Lock()
	defer m.logMutex.Unlock()

	select {
	case <-m.logDone:
		return
	default:
		close(m.logDone)
	}
}
