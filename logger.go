package larder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// PhaseLogger is the interface for replan workflow logging.
type PhaseLogger interface {
	LogPhase(phase PhaseLog) error
}

// NewPhaseLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify specific logs produced with various models.
func NewPhaseLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(model), ":", "_"),
	)
}

// PhaseLog represents a single phase transition in the replan workflow
type PhaseLog struct {
	Phase        string    `json:"phase"`
	Timestamp    time.Time `json:"timestamp"`
	Event        any       `json:"event,omitempty"`
	SkippedMeals []string  `json:"skipped_meals,omitempty"`
	WasteRisk    int       `json:"waste_risk,omitempty"`
	Suggestions  any       `json:"suggestions,omitempty"`
	NewMeals     []string  `json:"new_meals,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// FilePhaseLogger logs to a file, accumulating phases and flushing at the end
type FilePhaseLogger struct {
	phases []PhaseLog
	writer io.Writer
}

// NewFilePhaseLogger creates a new file-based phase logger
func NewFilePhaseLogger(writer io.Writer) *FilePhaseLogger {
	return &FilePhaseLogger{
		phases: make([]PhaseLog, 0),
		writer: writer,
	}
}

// LogPhase logs a phase to the buffer (does not flush immediately)
func (fpl *FilePhaseLogger) LogPhase(phase PhaseLog) error {
	fpl.phases = append(fpl.phases, phase)
	return nil
}

// Flush flushes all accumulated phases to the writer
func (fpl *FilePhaseLogger) Flush() error {
	if fpl.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"replan_session": map[string]any{
			"timestamp": time.Now(),
			"phases":    fpl.phases,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replan log: %w", err)
	}

	if _, err := fpl.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write replan log: %w", err)
	}

	// Clear the buffer after successful write
	fpl.phases = fpl.phases[:0]
	return nil
}

// NoOpPhaseLogger is a logger that discards all log entries
type NoOpPhaseLogger struct{}

// NewNoOpPhaseLogger creates a new no-op phase logger
func NewNoOpPhaseLogger() *NoOpPhaseLogger {
	return &NoOpPhaseLogger{}
}

// LogPhase discards the phase log (no-op)
func (nop *NoOpPhaseLogger) LogPhase(phase PhaseLog) error {
	return nil
}

// StdoutPhaseLogger logs each phase as a JSON line to stdout (for Lambda/CloudWatch)
type StdoutPhaseLogger struct{}

// NewStdoutPhaseLogger creates a new stdout-based phase logger
func NewStdoutPhaseLogger() *StdoutPhaseLogger {
	return &StdoutPhaseLogger{}
}

// LogPhase writes the phase as a JSON line to os.Stdout
func (l *StdoutPhaseLogger) LogPhase(phase PhaseLog) error {
	data, err := json.Marshal(phase)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
