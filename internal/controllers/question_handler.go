package controllers

import (
	"context"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/config"
	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/middleware"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/services"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type QAHandler struct {
	Svc     *services.QAService
	Timeout time.Duration
}

func (h *QAHandler) ctx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// @Summary      Create a question
// @Description  Create a question in a college; broadcasts new-question to college-{collegeId}
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateQuestionReq  true  "Question payload"
// @Success      201   {object}  models.Question
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /questions [post]
func (h *QAHandler) CreateQuestion(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)

	var body dto.CreateQuestionReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}
	collegeID, _ := bson.ObjectIDFromHex(body.CollegeID)

	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.Svc.CreateQuestion(ctx, uid, services.NewQuestion{
		CollegeID: collegeID,
		Title:     body.Title,
		Body:      body.Body,
		Tags:      body.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// @Summary      Get a question with its answers
// @Description  Bootstrap snapshot for a live question view. Counts a view.
// @Tags         questions
// @Produce      json
// @Param        id   path      string  true  "Question ID (hex)"
// @Success      200  {object}  dto.QuestionDetailResp
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /questions/{id} [get]
func (h *QAHandler) GetQuestion(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid question id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.Svc.GetQuestion(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// @Summary      List questions of a college
// @Description  Newest first with cursor pagination
// @Tags         questions
// @Produce      json
// @Param        collegeId  path   string  true   "College ID (hex)"
// @Param        limit      query  int     false  "Max items per page" minimum(1) maximum(100) default(20)
// @Param        cursor     query  string  false  "Opaque next-page cursor"
// @Success      200        {object}  dto.ListQuestionsResp
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /colleges/{collegeId}/questions [get]
func (h *QAHandler) ListCollegeQuestions(c *fiber.Ctx) error {
	collegeID, ok := paramID(c, "collegeId")
	if !ok {
		return badRequest(c, "invalid college id")
	}

	limit := int64(c.QueryInt("limit", config.DefaultLimitQuestions))
	if limit <= 0 {
		limit = config.DefaultLimitQuestions
	}
	if limit > config.MaxLimitQuestions {
		limit = config.MaxLimitQuestions
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.Svc.ListCollegeQuestions(ctx, collegeID, c.Query("cursor"), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// @Summary      Update a question
// @Description  Only the author can update; broadcasts question-updated to college-{collegeId}
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Question ID (hex)"
// @Param        body  body      dto.UpdateQuestionReq  true  "Fields to replace"
// @Success      200   {object}  models.Question
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /questions/{id} [put]
func (h *QAHandler) UpdateQuestion(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid question id")
	}

	var body dto.UpdateQuestionReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	q, err := h.Svc.UpdateQuestion(ctx, uid, id, models.QuestionPatch{
		Title: body.Title,
		Body:  body.Body,
		Tags:  body.Tags,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(q)
}

// @Summary      Delete a question
// @Description  Only the author can delete. Answers are deleted first; one question-deleted is broadcast.
// @Tags         questions
// @Security     BearerAuth
// @Param        id   path  string  true  "Question ID (hex)"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /questions/{id} [delete]
func (h *QAHandler) DeleteQuestion(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid question id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Svc.DeleteQuestion(ctx, uid, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary      Toggle like on a question
// @Description  Like if not yet liked, otherwise unlike. Broadcasts likes-updated to question-{id}.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Question ID (hex)"
// @Success      200  {object}  dto.LikeToggleResp
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /questions/{id}/like [post]
func (h *QAHandler) ToggleQuestionLike(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid question id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.Svc.ToggleQuestionLike(ctx, uid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}
