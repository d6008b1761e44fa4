package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	amsauth "github.com/amstrack/amsauth"
	"github.com/amstrack/amsauth/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() map[amsauth.MetricID]uint64
}

// Exporter renders session counters in Prometheus text exposition
// format.
type Exporter struct {
	source metricsSource
}

// NewExporter creates a Prometheus exporter that reads from the given
// [amsauth.Manager].
func NewExporter(manager *amsauth.Manager) *Exporter {
	return &Exporter{source: manager}
}

// NewExporterFromSource creates a Prometheus exporter from a custom
// snapshot source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the current counters.
func (p *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current counters in Prometheus text exposition
// format. Output order is fixed by the counter catalog, so successive
// renders are diffable.
func (p *Exporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	if len(snapshot) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(2048)

	for _, def := range internaldefs.CounterDefs {
		writeCounter(&b, def.Name, def.Help, snapshot[def.ID])
	}
	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
