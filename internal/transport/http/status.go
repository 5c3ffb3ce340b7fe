package httptransport

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"plantid-bot-go/internal/domain/translation"
	"plantid-bot-go/internal/platform/logging"
)

// SessionStats reports session store counters.
type SessionStats interface {
	Stats(ctx context.Context) (map[string]any, error)
}

// TranslationStats reports translation cache counters.
type TranslationStats interface {
	Stats() translation.Stats
}

// EventStats reports how many events the bus dropped.
type EventStats interface {
	Dropped() int64
}

// EventCounter reports persisted events per topic.
type EventCounter interface {
	CountByType(ctx context.Context) (map[string]int64, error)
}

// StatusSources lists what GET /api/status reports on. Nil sources are
// omitted from the payload.
type StatusSources struct {
	Sessions    SessionStats
	Translation TranslationStats
	Events      EventStats
	EventCounts EventCounter
}

// StatusHandler serves runtime and component statistics.
type StatusHandler struct {
	sources StatusSources
	logger  logging.Interface
	started time.Time
}

func NewStatusHandler(sources StatusSources, logger logging.Interface) *StatusHandler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &StatusHandler{sources: sources, logger: logger, started: time.Now()}
}

// RegisterRoutes mounts GET /api/status.
func (h *StatusHandler) RegisterRoutes(router *Router) {
	router.API.GET("/status", h.HandleStatus)
}

// HandleStatus reports process, translation, session and event stats.
func (h *StatusHandler) HandleStatus(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"process":        h.processStats(ctx),
	}
	if h.sources.Translation != nil {
		data["translation"] = h.sources.Translation.Stats()
	}
	if h.sources.Sessions != nil {
		stats, err := h.sources.Sessions.Stats(ctx)
		if err != nil {
			h.logger.Warn("session stats unavailable: %v", err)
			stats = map[string]any{"error": err.Error()}
		}
		data["sessions"] = stats
	}
	events := gin.H{}
	if h.sources.Events != nil {
		events["dropped"] = h.sources.Events.Dropped()
	}
	if h.sources.EventCounts != nil {
		counts, err := h.sources.EventCounts.CountByType(ctx)
		if err != nil {
			h.logger.Warn("event counts unavailable: %v", err)
			events["persisted_error"] = err.Error()
		} else {
			events["persisted"] = counts
		}
	}
	if len(events) > 0 {
		data["events"] = events
	}
	RespondSuccess(c, http.StatusOK, data, "")
}

// processStats never fails: fields gopsutil cannot read are left out.
func (h *StatusHandler) processStats(ctx context.Context) gin.H {
	stats := gin.H{
		"pid":        os.Getpid(),
		"goroutines": runtime.NumGoroutine(),
	}
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfoWithContext(ctx); err == nil {
			stats["rss_bytes"] = info.RSS
		}
		if cpu, err := p.CPUPercentWithContext(ctx); err == nil {
			stats["cpu_percent"] = cpu
		}
	} else {
		h.logger.Debug("process stats unavailable: %v", err)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats["system_memory_used_percent"] = vm.UsedPercent
	}
	return stats
}
