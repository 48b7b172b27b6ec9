package uploads

import "fmt"

// ProgressUpdate represents a progress event during a batch upload.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	ItemID  string // Queue item the event belongs to
	Step    int    // Item ordinal within the batch
	Total   int    // Items in the batch
	Percent int    // Upload progress for this item, 0-100
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Probe Phase = iota
	Upload
	Complete
	Failed
)

func (p Phase) String() string {
	switch p {
	case Probe:
		return "probe"
	case Upload:
		return "upload"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

func startedUpdate(item Item, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		ItemID:  item.ID,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading: %s...", step, total, item.Name),
	}
}

func progressUpdate(item Item, step, total, pct int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Upload,
		ItemID:  item.ID,
		Step:    step,
		Total:   total,
		Percent: pct,
		Message: fmt.Sprintf("[%d/%d] %s: %d%%", step, total, item.Name, pct),
	}
}

func completedUpdate(item Item, step, total int, songID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		ItemID:  item.ID,
		Step:    step,
		Total:   total,
		Percent: 100,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, item.Name),
		Data:    songID,
	}
}

func failedUpdate(item Item, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Failed,
		ItemID:  item.ID,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, item.Name, err),
	}
}
