package controller

import (
	"errors"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

func quizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound),
		errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrNotAttended),
		errors.Is(err, util.ErrAttemptsExhausted):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrSessionNotDone):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrQuizNotActive):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrQuizIncomplete):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary Start or resume the evaluation quiz for a session
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/quiz [post]
func (c *QuizController) GetOrCreate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.Service.GetOrCreateQuiz(ctx.Request.Context(), sessionID, claims.UserID)
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

type answerReq struct {
	Number int    `json:"number" binding:"required,min=1,max=10"`
	Answer string `json:"answer" binding:"required"`
}

// @Summary Save an answer on an in-progress quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "quiz ID"
// @Param body body answerReq true "answer"
// @Success 200 {object} util.Response
// @Router /quizzes/{quizId}/answers [patch]
func (c *QuizController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}

	if !c.ownsQuiz(ctx, quizID, claims.UserID) {
		return
	}

	var req answerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SavePartialAnswer(quizID, req.Number, req.Answer); err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Submit an in-progress quiz for grading
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "quiz ID"
// @Success 200 {object} util.Response
// @Router /quizzes/{quizId}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}

	if !c.ownsQuiz(ctx, quizID, claims.UserID) {
		return
	}

	quiz, err := c.Service.SubmitQuiz(ctx.Request.Context(), quizID)
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary A quiz with its questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "quiz ID"
// @Success 200 {object} util.Response
// @Router /quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}

	quiz, err := c.Service.GetQuizWithQuestions(quizID)
	if err != nil {
		quizError(ctx, err)
		return
	}

	if quiz.LearnerID != claims.UserID && claims.Role != model.Admin {
		util.Forbidden(ctx, util.ErrPermissionDenied.Error())
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Remaining quiz attempts for a session
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/quiz/attempts [get]
func (c *QuizController) RemainingAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessionID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	remaining, err := c.Service.RemainingAttempts(sessionID, claims.UserID)
	if err != nil {
		quizError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"remaining": remaining, "max": model.QuizMaxAttempts})
}

func (c *QuizController) ownsQuiz(ctx *gin.Context, quizID, userID uint) bool {
	quiz, err := c.Service.GetQuizWithQuestions(quizID)
	if err != nil {
		quizError(ctx, err)
		return false
	}
	if quiz.LearnerID != userID {
		util.Forbidden(ctx, util.ErrPermissionDenied.Error())
		return false
	}
	return true
}
