package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shrinker/internal/domain/entities"
)

var (
	ColorInk     = lipgloss.Color("#E5E9F0")
	ColorDim     = lipgloss.Color("#7A8291")
	ColorAccent  = lipgloss.Color("#88C0D0")
	ColorSuccess = lipgloss.Color("#A3BE8C")
	ColorWarn    = lipgloss.Color("#EBCB8B")
	ColorError   = lipgloss.Color("#BF616A")
)

var (
	labelStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	valueStyle   = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	titleStyle   = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
)

// SummaryRow строка итоговой таблицы
type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary рисует таблицу "метка | значение" между горизонтальными линиями
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}
	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		lines = append(lines, fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value)))
	}
	lines = append(lines, hline)

	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// FormatSize размер в KB или MB
func FormatSize(bytes int64) string {
	if bytes >= 1024*1024 {
		return fmt.Sprintf("%.2f MB", float64(bytes)/1024/1024)
	}
	return fmt.Sprintf("%d KB", bytes/1024)
}

// RenderCompression итог сжатия одного файла
func RenderCompression(title string, result *entities.CompressionResult) string {
	rows := []SummaryRow{
		{Label: "Файл", Value: filepath.Base(result.CurrentFile)},
		{Label: "Результат", Value: result.OutputFile},
	}
	if result.Preset != "" {
		rows = append(rows, SummaryRow{Label: "Пресет", Value: result.Preset.String()})
	}
	rows = append(rows,
		SummaryRow{Label: "Было", Value: FormatSize(result.OriginalSize)},
		SummaryRow{Label: "Стало", Value: FormatSize(result.CompressedSize)},
		SummaryRow{Label: "Сжатие", Value: fmt.Sprintf("%.1f%%", result.CompressionRatio)},
	)
	return titleStyle.Render(title) + "\n" + RenderSummary(rows)
}

// RenderOutcome итог поиска по целевому размеру вместе с таблицей проб
func RenderOutcome(source string, originalSize int64, outcome *entities.TargetOutcome) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Подбор пресета: "+filepath.Base(source)) + "\n")
	b.WriteString(RenderProbes(outcome.Probes, outcome.TargetKB, outcome.Selected) + "\n")

	if !outcome.Found() {
		b.WriteString(errorStyle.Render("✗ Ни один пресет не дал результата"))
		return b.String()
	}

	rows := []SummaryRow{
		{Label: "Результат", Value: outcome.Path},
		{Label: "Пресет", Value: outcome.Selected.Preset.String()},
		{Label: "Исходный размер", Value: FormatSize(originalSize)},
		{Label: "Итоговый размер", Value: fmt.Sprintf("%d KB", outcome.Selected.SizeKB)},
		{Label: "Цель", Value: fmt.Sprintf("%d KB", outcome.TargetKB)},
		{Label: "Запусков компрессора", Value: fmt.Sprintf("%d", outcome.Attempts)},
	}
	b.WriteString(RenderSummary(rows) + "\n")

	if outcome.WithinTarget() {
		b.WriteString(successStyle.Render("✓ Цель достигнута"))
	} else {
		b.WriteString(warnStyle.Render("⚠ Цель не достигнута, выбран ближайший результат"))
	}
	return b.String()
}

// RenderProbes таблица проб: пресет, размер и отметка выбранной
func RenderProbes(probes []entities.ProbeResult, targetKB int64, selected *entities.ProbeResult) string {
	if len(probes) == 0 {
		return labelStyle.Render("  (нет успешных проб)")
	}

	lines := make([]string, 0, len(probes))
	for _, p := range probes {
		marker := " "
		style := labelStyle
		if selected != nil && p.Preset == selected.Preset {
			marker = "●"
			style = successStyle
		}
		fit := "  "
		if targetKB > 0 && p.SizeKB <= targetKB {
			fit = "✓ "
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", marker, style.Render(padRight(p.Preset.String(), 9)), fit+fmt.Sprintf("%d KB", p.SizeKB)))
	}
	return strings.Join(lines, "\n")
}

// RenderProbeEvent строка прогресса для одной пробы
func RenderProbeEvent(event entities.ProbeEvent) string {
	prefix := labelStyle.Render(fmt.Sprintf("[%d/%d]", event.Index+1, event.Total)) + " " + padRight(event.Preset.String(), 9)
	switch {
	case !event.Success:
		return prefix + " " + errorStyle.Render(fmt.Sprintf("ошибка: %v", event.Err))
	case event.Accepted:
		return prefix + " " + successStyle.Render(fmt.Sprintf("%d KB ✓", event.SizeKB))
	default:
		return prefix + " " + valueStyle.Render(fmt.Sprintf("%d KB", event.SizeKB))
	}
}

// RenderBatch итог пакетной обработки
func RenderBatch(status entities.ProcessingStatus, mode string, targetKB int64) string {
	rows := []SummaryRow{
		{Label: "Файлов", Value: fmt.Sprintf("%d", status.TotalFiles)},
		{Label: "Успешно", Value: fmt.Sprintf("%d", status.SuccessfulFiles)},
		{Label: "Ошибок", Value: fmt.Sprintf("%d", status.FailedFiles)},
	}
	if mode == entities.ModeTarget {
		rows = append(rows, SummaryRow{Label: fmt.Sprintf("В пределах %d KB", targetKB), Value: fmt.Sprintf("%d", status.WithinTargetFiles)})
	}
	rows = append(rows,
		SummaryRow{Label: "Было", Value: FormatSize(status.TotalOriginalSize)},
		SummaryRow{Label: "Стало", Value: FormatSize(status.TotalCompressedSize)},
		SummaryRow{Label: "Среднее сжатие", Value: fmt.Sprintf("%.1f%%", status.AverageCompression)},
		SummaryRow{Label: "Время", Value: status.FormatElapsedTime()},
	)
	return titleStyle.Render("Пакетная обработка") + "\n" + RenderSummary(rows)
}
