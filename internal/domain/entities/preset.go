package entities

import (
	"fmt"
	"strings"
)

// QualityPreset именованный профиль качества внешнего компрессора
type QualityPreset string

const (
	PresetScreen   QualityPreset = "screen"
	PresetEbook    QualityPreset = "ebook"
	PresetPrinter  QualityPreset = "printer"
	PresetPrepress QualityPreset = "prepress"
	PresetDefault  QualityPreset = "default"
)

// presetOrder порядок перебора: от самого агрессивного сжатия к самому мягкому.
// Порядок определяет последовательность проб и разрешение равенств.
var presetOrder = [...]QualityPreset{
	PresetScreen,
	PresetEbook,
	PresetPrinter,
	PresetPrepress,
	PresetDefault,
}

// AllPresets возвращает пресеты в порядке перебора
func AllPresets() []QualityPreset {
	out := make([]QualityPreset, len(presetOrder))
	copy(out, presetOrder[:])
	return out
}

// ParsePreset разбирает имя пресета (регистр и ведущий "/" не важны)
func ParsePreset(name string) (QualityPreset, error) {
	normalized := QualityPreset(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "/"))
	for _, p := range presetOrder {
		if p == normalized {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Index возвращает позицию пресета в порядке перебора или -1
func (p QualityPreset) Index() int {
	for i, candidate := range presetOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// IsValid проверяет, что пресет входит в перечисление
func (p QualityPreset) IsValid() bool {
	return p.Index() >= 0
}

// GhostscriptSetting значение для -dPDFSETTINGS
func (p QualityPreset) GhostscriptSetting() string {
	return "/" + string(p)
}

func (p QualityPreset) String() string {
	return string(p)
}

// PresetNames имена пресетов в порядке перебора, для флагов и форм
func PresetNames() []string {
	names := make([]string, 0, len(presetOrder))
	for _, p := range presetOrder {
		names = append(names, string(p))
	}
	return names
}
