package status

import (
	"net/http"
	"runtime"
	"time"

	"github.com/evgeniy-krivenko/notes-query/pkg/gwserver"
)

type connectionData struct {
	Driver      string     `json:"driver"`
	Database    string     `json:"database,omitempty"`
	Host        string     `json:"host,omitempty"`
	ConnectedAt *time.Time `json:"connectedAt,omitempty"`
	CheckedAt   *time.Time `json:"checkedAt,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type statusResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Data      connectionData `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type memoryStats struct {
	AllocBytes uint64 `json:"allocBytes"`
	SysBytes   uint64 `json:"sysBytes"`
	Goroutines int    `json:"goroutines"`
}

type healthResponse struct {
	Status    string      `json:"status"`
	Uptime    float64     `json:"uptime"`
	Database  string      `json:"database"`
	Memory    memoryStats `json:"memory"`
	Timestamp time.Time   `json:"timestamp"`
}

// Register mounts GET /api/status and GET /api/health.
func (m *Monitor) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", m.status)
	mux.HandleFunc("GET /api/health", m.healthCheck)
}

func (m *Monitor) status(w http.ResponseWriter, r *http.Request) {
	s := m.State()

	resp := statusResponse{
		Status:  "connected",
		Message: "Store connection is healthy",
		Data: connectionData{
			Driver:      s.Driver,
			Database:    s.Database,
			Host:        s.Host,
			ConnectedAt: timeRef(s.ConnectedAt),
			CheckedAt:   timeRef(s.CheckedAt),
			Error:       s.Error,
		},
		Timestamp: m.now().UTC(),
	}

	code := http.StatusOK
	if !s.Connected {
		code = http.StatusServiceUnavailable
		resp.Status = "disconnected"
		resp.Message = "Store is not connected"
	}

	gwserver.WriteJSON(w, code, resp)
}

func (m *Monitor) healthCheck(w http.ResponseWriter, r *http.Request) {
	s := m.State()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := healthResponse{
		Status:   "healthy",
		Uptime:   m.Uptime().Seconds(),
		Database: "connected",
		Memory: memoryStats{
			AllocBytes: ms.Alloc,
			SysBytes:   ms.Sys,
			Goroutines: runtime.NumGoroutine(),
		},
		Timestamp: m.now().UTC(),
	}

	code := http.StatusOK
	if !s.Connected {
		code = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	}

	gwserver.WriteJSON(w, code, resp)
}

func timeRef(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	t = t.UTC()
	return &t
}
