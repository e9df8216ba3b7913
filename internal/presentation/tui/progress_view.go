package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/rivo/tview"

	"shrinker/internal/domain/entities"
)

// createProcessingScreen создает экран обработки
func (m *Manager) createProcessingScreen() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true)

	m.progressView.SetBorder(true).
		SetTitle("📊 Прогресс обработки").
		SetTitleAlign(tview.AlignCenter)

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(MaxLogBufferSize)

	m.logView.SetBorder(true).
		SetTitle("📋 Журнал событий").
		SetTitleAlign(tview.AlignCenter)
}

// createProcessingLayout создает layout для экрана обработки
func (m *Manager) createProcessingLayout() *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.logView, 0, 1, false).
		AddItem(m.progressView, ProgressViewHeight, 0, false)
}

// updateProgress обновляет панель прогресса
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}

	text := renderStatus(status, m.GetConfig().Compression)
	if status.IsComplete {
		m.isProcessing = false
	}

	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(text)
	})
}

// renderStatus формирует текст панели прогресса
func renderStatus(status entities.ProcessingStatus, compression entities.AppCompressionConfig) string {
	var b strings.Builder

	phaseText := status.Phase.String()
	if status.Message != "" {
		phaseText = status.Message
	}
	displayFile := truncateFileName(filepath.Base(status.CurrentFile), MaxFileNameLength, MaxFileNameDisplay)

	fmt.Fprintf(&b, "[yellow]⚙️  Фаза:[white] %s\n", phaseText)
	fmt.Fprintf(&b, "[yellow]📁 Текущий файл:[white] %s", tview.Escape(displayFile))
	if status.CurrentFileSize > 0 {
		fmt.Fprintf(&b, " [gray](%.2f MB)[white]", float64(status.CurrentFileSize)/1024/1024)
	}
	if status.LastResult != nil && status.LastResult.Preset != "" {
		fmt.Fprintf(&b, " [gray]пресет %s[white]", status.LastResult.Preset)
	}

	fmt.Fprintf(&b, "\n[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n",
		createProgressBar(status.Progress, ProgressBarWidth), status.Progress)

	fmt.Fprintf(&b, "[green]📈 Файлы:[white] всего [cyan]%d[white], обработано [cyan]%d[white], успешно [green]%d[white]",
		status.TotalFiles, status.ProcessedFiles, status.SuccessfulFiles)
	if status.FailedFiles > 0 {
		fmt.Fprintf(&b, ", ошибок [red]%d[white]", status.FailedFiles)
	}
	if compression.Mode == entities.ModeTarget && status.ProcessedFiles > 0 {
		fmt.Fprintf(&b, "\n[green]🎯 В пределах %d KB:[white] [cyan]%d из %d[white]",
			compression.TargetKB, status.WithinTargetFiles, status.SuccessfulFiles)
	}

	if status.TotalOriginalSize > 0 {
		fmt.Fprintf(&b, "\n[green]💾 Размер:[white] [cyan]%.2f MB[white] → [cyan]%.2f MB[white], сжатие [green]%.1f%%[white], сэкономлено [green]%.2f MB[white]",
			float64(status.TotalOriginalSize)/1024/1024,
			float64(status.TotalCompressedSize)/1024/1024,
			status.AverageCompression,
			float64(status.TotalSavedSpace)/1024/1024)
	}

	fmt.Fprintf(&b, "\n[yellow]⏱️  Прошло:[white] [cyan]%s[white]", status.FormatElapsedTime())
	if !status.IsComplete && status.EstimatedTime > 0 {
		fmt.Fprintf(&b, ", осталось [cyan]~%s[white]", status.FormatEstimatedTime())
	}
	b.WriteString("\n")

	if status.IsComplete {
		if status.Error != nil {
			fmt.Fprintf(&b, "[red]❌ Обработка завершена с ошибкой: %s[white]\n", tview.Escape(status.Error.Error()))
		} else {
			b.WriteString("[green]✅ Обработка успешно завершена![white]\n")
		}
	}
	b.WriteString("[yellow]F1/ESC[white] - Главное меню")

	return b.String()
}

// truncateFileName усекает имя файла с учетом UTF-8
func truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func createProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	filled := int(math.Round(progress * float64(width) / 100))
	if filled > width {
		filled = width
	}

	const filledChar = "█"
	const emptyChar = "░"

	var color string
	switch {
	case progress < 25:
		color = "red"
	case progress < 50:
		color = "yellow"
	case progress < 75:
		color = "blue"
	default:
		color = "green"
	}

	return fmt.Sprintf("[%s]%s[gray]%s", color, strings.Repeat(filledChar, filled), strings.Repeat(emptyChar, width-filled))
}
