package controllers

import (
	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/middleware"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// @Summary      Post an answer
// @Description  Appends the answer to its question and broadcasts new-answer to question-{questionId}
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateAnswerReq  true  "Answer payload"
// @Success      201   {object}  models.Answer
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /answers [post]
func (h *QAHandler) CreateAnswer(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)

	var body dto.CreateAnswerReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}
	qid, _ := bson.ObjectIDFromHex(body.QuestionID)

	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.Svc.CreateAnswer(ctx, uid, qid, body.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// @Summary      Get an answer
// @Tags         answers
// @Produce      json
// @Param        id   path      string  true  "Answer ID (hex)"
// @Success      200  {object}  models.Answer
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /answers/{id} [get]
func (h *QAHandler) GetAnswer(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.Svc.GetAnswer(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

// @Summary      Edit an answer
// @Description  Only the author can edit; broadcasts answer-updated
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Answer ID (hex)"
// @Param        body  body      dto.UpdateAnswerReq  true  "New content"
// @Success      200   {object}  models.Answer
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /answers/{id} [put]
func (h *QAHandler) UpdateAnswer(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}

	var body dto.UpdateAnswerReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.Svc.UpdateAnswer(ctx, uid, id, body.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

// @Summary      Delete an answer
// @Description  Only the author can delete; broadcasts answer-deleted
// @Tags         answers
// @Security     BearerAuth
// @Param        id   path  string  true  "Answer ID (hex)"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /answers/{id} [delete]
func (h *QAHandler) DeleteAnswer(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Svc.DeleteAnswer(ctx, uid, id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// @Summary      Toggle like on an answer
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Answer ID (hex)"
// @Success      200  {object}  dto.LikeToggleResp
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /answers/{id}/like [post]
func (h *QAHandler) ToggleAnswerLike(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	resp, err := h.Svc.ToggleAnswerLike(ctx, uid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// @Summary      Accept an answer
// @Description  Only the question author can accept. Repeating the call is a no-op.
// @Tags         answers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Answer ID (hex)"
// @Success      200  {object}  models.Answer
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /answers/{id}/accept [post]
func (h *QAHandler) AcceptAnswer(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	a, err := h.Svc.AcceptAnswer(ctx, uid, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(a)
}

// @Summary      Comment on an answer
// @Description  Broadcasts new-comment with the answer id to question-{questionId}
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Answer ID (hex)"
// @Param        body  body      dto.CreateCommentReq  true  "Comment payload"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /answers/{id}/comments [post]
func (h *QAHandler) AddComment(c *fiber.Ctx) error {
	uid, _ := middleware.UIDObjectID(c)
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid answer id")
	}

	var body dto.CreateCommentReq
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := utils.ValidateStruct(body); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	cm, err := h.Svc.AddComment(ctx, uid, id, body.Content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cm)
}
