package pipeline

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// logResourceSnapshot records a point-in-time CPU/memory reading
// alongside a finished request, following the teacher's system-handler
// pattern of sampling gopsutil directly rather than running a
// background collector.
func logResourceSnapshot(log zerolog.Logger, requestID string) {
	cpuPercent, err := cpu.Percent(50*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		return
	}
	memStat, err := mem.VirtualMemory()
	if err != nil {
		return
	}
	log.Debug().
		Str("component", "pipeline").
		Str("request_id", requestID).
		Float64("cpu_percent", cpuPercent[0]).
		Float64("mem_percent", memStat.UsedPercent).
		Msg("resource snapshot")
}
