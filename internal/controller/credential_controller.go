package controller

import (
	"errors"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CredentialController struct {
	Service *service.CredentialService
}

func NewCredentialController(svc *service.CredentialService) *CredentialController {
	return &CredentialController{Service: svc}
}

// @Summary Skill credentials earned by the current user
// @Tags credentials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /credentials [get]
func (c *CredentialController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	creds, err := c.Service.ListForLearner(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, creds)
}

// @Summary Verify a credential by its public ID
// @Tags credentials
// @Produce json
// @Param publicId path string true "credential public ID"
// @Success 200 {object} util.Response
// @Router /credentials/{publicId}/verify [get]
func (c *CredentialController) Verify(ctx *gin.Context) {
	cred, err := c.Service.Verify(ctx.Param("publicId"))
	if err != nil {
		if errors.Is(err, util.ErrCredentialNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, cred)
}
