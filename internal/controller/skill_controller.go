package controller

import (
	"errors"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	Service *service.SkillService
}

func NewSkillController(svc *service.SkillService) *SkillController {
	return &SkillController{Service: svc}
}

// @Summary List skills
// @Tags skills
// @Produce json
// @Param category query string false "filter by category"
// @Success 200 {object} util.Response
// @Router /skills [get]
func (c *SkillController) List(ctx *gin.Context) {
	skills, err := c.Service.List(ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

// @Summary Skill detail
// @Tags skills
// @Produce json
// @Param id path int true "skill ID"
// @Success 200 {object} util.Response
// @Router /skills/{id} [get]
func (c *SkillController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	skill, err := c.Service.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrSkillNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, skill)
}

// @Summary Create a skill
// @Tags skills
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSkillReq true "skill"
// @Success 201 {object} util.Response
// @Router /skills [post]
func (c *SkillController) Create(ctx *gin.Context) {
	var req service.CreateSkillReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.Service.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrSkillExists) {
			util.Conflict(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, skill)
}
