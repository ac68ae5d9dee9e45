package controller

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Service     *service.SessionService
	Transcripts *service.TranscriptService
}

func NewSessionController(svc *service.SessionService, transcripts *service.TranscriptService) *SessionController {
	return &SessionController{Service: svc, Transcripts: transcripts}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// @Summary Create a learning session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSessionReq true "session"
// @Success 201 {object} util.Response
// @Router /sessions [post]
func (c *SessionController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateSessionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Create(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary List sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Param status query string false "filter by status"
// @Success 200 {object} util.Response
// @Router /sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	status := model.SessionStatus(ctx.Query("status"))

	sessions, total, err := c.Service.List(page, limit, status)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: sessions, Total: total, Page: page, Limit: limit})
}

// @Summary Session detail
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id} [get]
func (c *SessionController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	session, err := c.Service.Get(id)
	if err != nil {
		util.NotFound(ctx, util.ErrSessionNotFound.Error())
		return
	}

	util.Success(ctx, session)
}

// @Summary Book a seat on a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Success 201 {object} util.Response
// @Router /sessions/{id}/book [post]
func (c *SessionController) Book(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	booking, err := c.Service.Book(id, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAlreadyBooked):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrSessionNotDone):
			util.Conflict(ctx, "session is not open for booking")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, booking)
}

type attendanceReq struct {
	LearnerID uint `json:"learnerId" binding:"required"`
	Attended  bool `json:"attended"`
}

// @Summary Mark a learner's attendance
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Param body body attendanceReq true "attendance"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/attendance [post]
func (c *SessionController) MarkAttendance(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req attendanceReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.MarkAttendance(id, claims.UserID, req.LearnerID, req.Attended); err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound), errors.Is(err, util.ErrBookingNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

type completeReq struct {
	Notes string `json:"notes"`
}

// @Summary Complete a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Param body body completeReq true "closing notes"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/complete [post]
func (c *SessionController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req completeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.Complete(id, claims.UserID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

type transcriptReq struct {
	Text string `json:"text" binding:"required"`
}

// @Summary Upload a transcript for a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Param body body transcriptReq true "transcript text"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/transcript [put]
func (c *SessionController) SaveTranscript(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	session, err := c.Service.Get(id)
	if err != nil {
		util.NotFound(ctx, util.ErrSessionNotFound.Error())
		return
	}
	if session.MentorID != claims.UserID {
		util.Forbidden(ctx, util.ErrPermissionDenied.Error())
		return
	}

	var req transcriptReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	t, err := c.Transcripts.SaveManual(ctx.Request.Context(), id, req.Text)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// @Summary Upload a session recording for transcription
// @Tags sessions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Param recording formData file true "recording file"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/recording [post]
func (c *SessionController) UploadRecording(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	session, err := c.Service.Get(id)
	if err != nil {
		util.NotFound(ctx, util.ErrSessionNotFound.Error())
		return
	}
	if session.MentorID != claims.UserID {
		util.Forbidden(ctx, util.ErrPermissionDenied.Error())
		return
	}

	file, err := ctx.FormFile("recording")
	if err != nil {
		util.BadRequest(ctx, "recording file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("recording-%d-%s", id, filepath.Base(file.Filename)))
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	t, err := c.Transcripts.IngestRecording(ctx.Request.Context(), id, tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, t)
}

// @Summary A session's stored transcript
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "session ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/transcript [get]
func (c *SessionController) GetTranscript(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	session, err := c.Service.Get(id)
	if err != nil {
		util.NotFound(ctx, util.ErrSessionNotFound.Error())
		return
	}
	if session.MentorID != claims.UserID && claims.Role != model.Admin {
		util.Forbidden(ctx, util.ErrPermissionDenied.Error())
		return
	}

	t, err := c.Transcripts.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrTranscriptMissing) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, t)
}
