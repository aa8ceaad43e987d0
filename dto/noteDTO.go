package dto

type CreateNoteRequest struct {
	Title   string   `json:"title" binding:"required,max=200"`
	Content string   `json:"content"`
	Tags    []string `json:"tags" binding:"max=20,dive,max=50"`
}

type UpdateNoteRequest struct {
	Title   *string   `json:"title" binding:"omitempty,max=200"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}
