package entities

// ProbeResult результат одной пробы: файл, полученный на одном пресете, и его размер
type ProbeResult struct {
	Preset QualityPreset
	Path   string
	SizeKB int64
}

// Distance абсолютная разница между размером пробы и целевым размером
func (r ProbeResult) Distance(targetKB int64) int64 {
	d := r.SizeKB - targetKB
	if d < 0 {
		return -d
	}
	return d
}

// OutcomeStatus итог поиска по целевому размеру
type OutcomeStatus int

const (
	// OutcomeNone ни один пресет не дал результата
	OutcomeNone OutcomeStatus = iota
	// OutcomeAccepted первая проба, уложившаяся в целевой размер
	OutcomeAccepted
	// OutcomeClosest ни одна проба не уложилась, выбрана ближайшая
	OutcomeClosest
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeClosest:
		return "closest"
	default:
		return "none"
	}
}

// TargetOutcome результат поиска по целевому размеру.
// При OutcomeNone путь пуст, Selected == nil и Probes пуст: файлов проб на диске нет.
type TargetOutcome struct {
	Status   OutcomeStatus
	Path     string
	TargetKB int64
	Selected *ProbeResult
	// Probes все успешные пробы в порядке перебора (файлы, кроме выбранного, уже удалены).
	// Path у выбранной пробы указывает на временный файл, который уже перемещен в Path исхода.
	Probes []ProbeResult
	// Attempts количество вызовов внешнего компрессора
	Attempts int
}

// Found сообщает, был ли получен итоговый файл
func (o *TargetOutcome) Found() bool {
	return o != nil && o.Status != OutcomeNone && o.Path != ""
}

// WithinTarget сообщает, уложился ли выбранный результат в целевой размер
func (o *TargetOutcome) WithinTarget() bool {
	return o.Found() && o.Status == OutcomeAccepted
}

// ProbeEvent событие, отправляемое после каждой пробы
type ProbeEvent struct {
	Source   string
	Index    int
	Total    int
	Preset   QualityPreset
	Path     string
	SizeKB   int64
	TargetKB int64
	Success  bool
	Accepted bool
	Err      error
}
