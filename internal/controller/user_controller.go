package controller

import (
	"errors"
	"strconv"

	"quiz_tournament_backend/internal/service"
	"quiz_tournament_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetAllUsers godoc
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/users [get]
func (c *UserController) GetAllUsers(ctx *gin.Context) {
	users, err := c.UserService.GetAllUsers()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// GetUser godoc
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := c.pathID(ctx)
	if !ok {
		return
	}

	user, err := c.UserService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary 更新用户资料
// @Description 密码不允许从这里改，带 password 字段直接拒绝
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户 ID"
// @Param body body service.UserUpdate true "更新字段"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "试图更新密码"
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := c.pathID(ctx)
	if !ok {
		return
	}

	var update service.UserUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(id, update)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPasswordUpdate):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Param id path int true "用户 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := c.pathID(ctx)
	if !ok {
		return
	}

	if err := c.UserService.DeleteUser(id); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"message": "user deleted"})
}

// GetProfile godoc
// @Summary 当前用户信息
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetUserByID(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

func (c *UserController) pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
