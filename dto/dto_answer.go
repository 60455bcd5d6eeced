package dto

// POST /answers
type CreateAnswerReq struct {
	QuestionID string `json:"questionId" validate:"required,len=24,hexadecimal"`
	Content    string `json:"content"    validate:"required,min=1,max=10000"`
}

// PUT /answers/:id
type UpdateAnswerReq struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

// POST /answers/:id/comments
type CreateCommentReq struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
