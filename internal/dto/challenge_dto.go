package dto

// SetChallengeRequest: payload to set the yearly reading goal
type SetChallengeRequest struct {
	Year        int `json:"year" binding:"required,min=2000,max=2100"`
	TargetBooks int `json:"target_books" binding:"required,min=1"`
}
