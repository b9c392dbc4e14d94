package workflows

import "frontier/internal/models"

type DiscoveryInput struct {
	SessionID     string           `json:"session_id"`
	Topic         string           `json:"topic"`
	Expertise     models.Expertise `json:"expertise"`
	ResultCap     int              `json:"result_cap"`
	MaxConcurrent int              `json:"max_concurrent"`
}

type DiscoveryProgress struct {
	SessionID string            `json:"session_id"`
	Topic     string            `json:"topic"`
	Status    string            `json:"status"`
	Total     int               `json:"total"`
	Done      int               `json:"done"`
	Cached    int               `json:"cached"`
	Failed    int               `json:"failed"`
	PerPaper  map[string]string `json:"per_paper_status"`
}

const (
	StatusSearching   = "searching"
	StatusSummarizing = "summarizing"
	StatusCompleted   = "completed"
	StatusEmpty       = "empty"
	StatusFailed      = "failed"
)
