package runner

import (
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/ecstoys/ecs"
)

// Report summarises a headless run.
type Report struct {
	Name string
	TPS  int

	Frames        int64
	TotalTime     time.Duration
	Scheduler     *ecs.SchedulerStats
	Storage       *ecs.StorageStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

const reportTemplate = `
# {{.Name}} headless run

- **Run Time:** {{.TotalTime}}
- **Frames:** {{.Frames}} at {{.TPS}} TPS

## Systems
{{- range .Scheduler.Systems}}
- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{- end}}

## World
- **Entities:** {{.Storage.TotalEntityCount}}
- **Archetypes:** {{.Storage.ArchetypeCount}}
{{- range .Storage.ArchetypeBreakdown}}
  - 0x{{printf "%X" .ID}} [{{join .ComponentTypes ", "}}]: {{.EntityCount}}
{{- end}}
- **Singletons:** {{join .Storage.SingletonTypes ", "}}

## Memory Usage (Raw Bytes)
- Heap Alloc:  {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc: {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:      {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

var reportFuncs = template.FuncMap{
	"join": strings.Join,
	"bsub": func(a, b uint64) int64 {
		return int64(a) - int64(b)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

// Generate writes the report as markdown
func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
