package services

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"eventhubble-backend-go/internal/models"
)

type HealthSample struct {
	CapturedAt        time.Time `json:"captured_at"`
	UptimeSeconds     int64     `json:"uptime_seconds"`
	Goroutines        int       `json:"goroutines"`
	ProcessRSSBytes   int64     `json:"process_rss_bytes"`
	SystemMemoryTotal int64     `json:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `json:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `json:"disk_total_bytes"`
	DiskUsedBytes     int64     `json:"disk_used_bytes"`
	ProcessCpuLoad    float64   `json:"process_cpu_load"`
	SystemCpuLoad     float64   `json:"system_cpu_load"`
}

var startedAt = time.Now()

// CaptureHealth samples process and host resources. Probes that fail leave
// their fields at zero.
func CaptureHealth(diskPath string) HealthSample {
	sample := HealthSample{
		CapturedAt:    time.Now().UTC(),
		UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if rss, err := proc.MemoryInfo(); err == nil && rss != nil {
			sample.ProcessRSSBytes = int64(rss.RSS)
		}
		if cpuPerc, err := proc.CPUPercent(); err == nil {
			sample.ProcessCpuLoad = cpuPerc / 100.0
		}
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		diskStat, err = disk.Usage("/")
	}
	if err == nil {
		sample.DiskTotalBytes = int64(diskStat.Total)
		sample.DiskUsedBytes = int64(diskStat.Used)
	}
	if sysCPU, err := cpu.Percent(0, false); err == nil && len(sysCPU) > 0 {
		sample.SystemCpuLoad = sysCPU[0] / 100.0
	}
	return sample
}

// AnalyticsHub fans tracked analytics records out to admin websocket clients.
type AnalyticsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan models.AnalyticsRecord
}

func NewAnalyticsHub() *AnalyticsHub {
	return &AnalyticsHub{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan models.AnalyticsRecord, 64),
	}
}

func (h *AnalyticsHub) Run(ctx context.Context) {
	for {
		select {
		case record := <-h.ch:
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteJSON(record); err != nil {
					delete(h.clients, conn)
					_ = conn.Close()
				}
			}
			h.mu.Unlock()
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
			}
			h.clients = map[*websocket.Conn]bool{}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast never blocks; records are dropped when the queue is full.
func (h *AnalyticsHub) Broadcast(record models.AnalyticsRecord) {
	select {
	case h.ch <- record:
	default:
	}
}

func (h *AnalyticsHub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *AnalyticsHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *AnalyticsHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
