package layout

import (
	"strings"
	"sync"
)

// ScriptedMeasurer is a deterministic Measurer for tests and dry runs. Every
// blank-line-separated paragraph measures PerPara mm unless Heights overrides
// it by exact text. Err, when set, fails every call. When Gate is non-nil,
// any measurement whose text contains BlockOn waits on it first.
type ScriptedMeasurer struct {
	PerPara float64
	Heights map[string]float64
	Err     error

	BlockOn string
	Gate    chan struct{}

	mu    sync.Mutex
	calls int
}

var _ Measurer = (*ScriptedMeasurer)(nil)

func (m *ScriptedMeasurer) MeasureHeight(text string, style TextStyle, width float64) (float64, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Gate != nil && m.BlockOn != "" && strings.Contains(text, m.BlockOn) {
		<-m.Gate
	}
	if m.Err != nil {
		return 0, m.Err
	}
	total := 0.0
	for _, para := range strings.Split(text, "\n\n") {
		if h, ok := m.Heights[para]; ok {
			total += h
		} else {
			total += m.PerPara
		}
	}
	return total, nil
}

// Calls reports how many measurements were requested.
func (m *ScriptedMeasurer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
