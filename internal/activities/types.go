package activities

import "frontier/internal/models"

type SearchPapersInput struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
	ResultCap int    `json:"result_cap"`
}

type SearchPapersOutput struct {
	Papers []models.PaperRecord `json:"papers"`
}

type SummarizePaperInput struct {
	SessionID string             `json:"session_id"`
	Paper     models.PaperRecord `json:"paper"`
	Expertise models.Expertise   `json:"expertise"`
}

type SummarizePaperOutput struct {
	PaperID string `json:"paper_id"`
	Cached  bool   `json:"cached"`
}
