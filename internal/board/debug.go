package board

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebugLogger logs board state, input events, and validation round trips
// to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "shopboard-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": DebugLogPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogDrag logs the drag state at a transition.
func LogDrag(d *Dragger, action string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}

	st := d.State()
	data := map[string]any{
		"action": action,
		"active": st.Active,
	}
	if st.Slot != nil {
		data["slot_id"] = st.Slot.ID
		data["original_machine"] = st.OriginalMachine
		data["current_machine"] = st.CurrentMachine
	}
	if st.HasSnap {
		data["snap_start"] = st.SnapStart.Format(time.RFC3339)
		data["conflicts"] = len(st.Conflicts)
	}
	debugLog.log("DRAG", data)
}

// LogValidation logs a validation request or response.
func LogValidation(requestID int64, outcome string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("VALIDATION", map[string]any{
		"request_id": requestID,
		"outcome":    outcome,
	})
}

// selectionLog mirrors selection changes into the debug log.
type selectionLog struct{}

func (selectionLog) OnSelectionChange(ids []int64) {
	LogSelection(ids)
}

// LogSelection logs the selected slot ids after a change.
func LogSelection(ids []int64) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("SELECTION", map[string]any{
		"count": len(ids),
		"ids":   ids,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}
