package dto

import "github.com/Udaymore741/Campus-Connect-sub000/internal/models"

// -- Request --

// POST /questions
type CreateQuestionReq struct {
	CollegeID string   `json:"collegeId" validate:"required,len=24,hexadecimal"`
	Title     string   `json:"title"     validate:"required,min=1,max=300"`
	Body      string   `json:"body"      validate:"required,min=1,max=10000"`
	Tags      []string `json:"tags"      validate:"max=10,dive,min=1,max=40"`
}

// PUT /questions/:id
type UpdateQuestionReq struct {
	Title string   `json:"title" validate:"required,min=1,max=300"`
	Body  string   `json:"body"  validate:"required,min=1,max=10000"`
	Tags  []string `json:"tags"  validate:"max=10,dive,min=1,max=40"`
}

// -- Response --

// GET /questions/:id: the bootstrap snapshot a live view starts from
type QuestionDetailResp struct {
	Question *models.Question `json:"question"`
	Answers  []models.Answer  `json:"answers"`
}

type LikeToggleResp struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type ListQuestionsResp struct {
	Questions  []models.Question `json:"questions"`
	NextCursor *string           `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}
