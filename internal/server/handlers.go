package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngenohkevin/backupdeck/config"
	"github.com/ngenohkevin/backupdeck/internal/cache"
	"github.com/ngenohkevin/backupdeck/internal/dashboard"
	"github.com/ngenohkevin/backupdeck/internal/status"
	"github.com/ngenohkevin/backupdeck/internal/system"
)

const hostInfoKey = "host:info"

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg       *config.Config
	dash      *dashboard.Dashboard
	hostCache *cache.Cache[*system.HostInfo]
	logger    *log.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config, dash *dashboard.Dashboard, logger *log.Logger) *Handlers {
	return &Handlers{
		cfg:       cfg,
		dash:      dash,
		hostCache: cache.New[*system.HostInfo](30 * time.Second),
		logger:    logger,
	}
}

// pageData is the template input of the dashboard page
type pageData struct {
	dashboard.View
	Host      *system.HostInfo
	ServerURL string
	NoTasks   string
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"timestamp":      time.Now().UTC(),
		"version":        "1.0.0",
		"backup_server":  h.cfg.BackupServerURL,
		"status_version": h.dash.Version(),
	})
}

// Index handles GET /
func (h *Handlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard", pageData{
		View:      h.dash.View(),
		Host:      h.hostInfo(c.Request.Context()),
		ServerURL: h.cfg.BackupServerURL,
		NoTasks:   dashboard.NoTasks,
	})
}

// GetView handles GET /api/view
func (h *Handlers) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.View())
}

// Refresh handles POST /api/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	if err := h.dash.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.dash.View())
}

// ClearSection handles POST /api/clear/:section
func (h *Handlers) ClearSection(c *gin.Context) {
	control, ok := h.control(c)
	if !ok {
		return
	}

	if err := h.activate(c, control); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":   err.Error(),
			"section": control.Target(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"section": control.Target(),
		"view":    h.dash.View(),
	})
}

// ClearForm handles POST /clear/:section from the dashboard page
func (h *Handlers) ClearForm(c *gin.Context) {
	control, ok := h.control(c)
	if !ok {
		return
	}

	// A busy control is already rendered disabled; just go back
	_ = h.activate(c, control)
	c.Redirect(http.StatusSeeOther, "/")
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	info := h.hostInfo(c.Request.Context())
	if info == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "host info unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostname":      info.Hostname,
		"os":            info.OS,
		"platform":      info.Platform,
		"arch":          info.KernelArch,
		"uptime":        info.UptimeHuman,
		"backup_server": h.cfg.BackupServerURL,
		"agent":         "backupdeck",
		"version":       "1.0.0",
	})
}

// StreamEvents handles GET /api/events (SSE). The current view is sent
// on connect and again whenever a new snapshot is applied.
func (h *Handlers) StreamEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.cfg.EventInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	sent := false
	var last uint64

	send := func() {
		view := h.dash.View()
		last = view.Version
		sent = true
		data, _ := json.Marshal(view)
		c.SSEvent("status", string(data))
	}

	c.Stream(func(w io.Writer) bool {
		if !sent {
			send()
			return true
		}

		select {
		case <-ticker.C:
			if h.dash.Version() != last {
				send()
			}
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// Close cleans up handler resources
func (h *Handlers) Close() error {
	h.hostCache.Close()
	return nil
}

func (h *Handlers) control(c *gin.Context) (*dashboard.ClearControl, bool) {
	section, err := status.ParseSection(c.Param("section"))
	if err == nil {
		var control *dashboard.ClearControl
		if control, err = h.dash.Control(section); err == nil {
			return control, true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	return nil, false
}

// activate runs the clear detached from the request so a closed browser
// tab does not abort it halfway.
func (h *Handlers) activate(c *gin.Context, control *dashboard.ClearControl) error {
	err := control.Activate(context.WithoutCancel(c.Request.Context()))
	if errors.Is(err, dashboard.ErrBusy) {
		h.logger.Printf("clear %s ignored: %v", control.Target(), err)
	}
	return err
}

func (h *Handlers) hostInfo(ctx context.Context) *system.HostInfo {
	if info, found := h.hostCache.Get(hostInfoKey); found {
		return info
	}

	info, err := system.GetHostInfo(ctx)
	if err != nil {
		h.logger.Printf("host info unavailable: %v", err)
		return nil
	}

	h.hostCache.Set(hostInfoKey, info)
	return info
}
