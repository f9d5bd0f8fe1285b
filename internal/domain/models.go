package domain

import "time"

// Source is an uploaded document awaiting conversion.
type Source struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size returns the byte length of the source.
func (s Source) Size() int64 {
	return int64(len(s.Data))
}

// PageImage represents a single rasterized PDF page
type PageImage struct {
	PageNum   int     `json:"pageNum"`   // 1-based source page
	ImageData string  `json:"imageData"` // data:image/jpeg;base64,...
	Width     float64 `json:"width"`     // may be fractional
	Height    float64 `json:"height"`
}

// Progress reports how far a conversion has come.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Percent returns processed/total as a percentage.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// EventType represents the type of stream event
type EventType string

const (
	EventStart        EventType = "start"
	EventPageComplete EventType = "page_complete"
	EventPageFailed   EventType = "page_failed"
	EventComplete     EventType = "complete"
)

// StreamEvent represents an event emitted during conversion
type StreamEvent struct {
	Type      EventType `json:"type"`
	PageNum   int       `json:"page_num,omitempty"`
	Progress  Progress  `json:"progress"`
	Err       error     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// ProcessingStats contains metadata about a conversion run
type ProcessingStats struct {
	TotalTime    time.Duration
	TotalPages   int
	Converted    int
	FailedPages  []int
	PageFailures []error
}

// CommandResolution is the reply of an external command resolver.
type CommandResolution struct {
	Action  string `json:"action"`
	Page    string `json:"page"`
	Message string `json:"message"`
}

// Resolution actions understood by the interpreter.
const (
	ActionNavigate = "navigate"
	ActionUnknown  = "unknown"
)
