// file: controllers/user_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/database/gormstore"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// --- 公开接口 ---

func Register(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required,min=8"`
		Email       string `json:"email" binding:"required,email"`
		Affiliation string `json:"affiliation"`
		Website     string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&user).Error; err == nil {
		utils.Fail(c, utils.ErrValidation("用户名或邮箱已被注册"))
		return
	}

	newUser := models.User{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		Affiliation: req.Affiliation,
		Website:     req.Website,
	}

	if err := database.DB.Create(&newUser).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}

	utils.Created(c, gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	})
}

func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Fail(c, utils.ErrUnauthorized("用户不存在或密码错误"))
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Fail(c, utils.ErrUnauthorized("用户不存在或密码错误"))
		return
	}

	if user.Status == models.StatusBanned {
		utils.Fail(c, utils.ErrForbidden("用户已被封禁"))
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("Token 生成失败"))
		return
	}

	utils.Success(c, gin.H{
		"token":    token,
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// --- 登录用户接口 ---

// GetMe 当前登录用户信息 + 总分
func GetMe(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}

	store := gormstore.NewGormStore(database.DB)
	solveSum, err := store.SumSolveValues(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}
	awardSum, err := store.SumAwards(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}

	utils.Success(c, gin.H{
		"user":  user,
		"score": solveSum + awardSum,
	})
}

func GetUserDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}

	utils.Success(c, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"affiliation": user.Affiliation,
		"website":     user.Website,
		"created_at":  user.CreatedAt,
	})
}

// UpdateUser 用户修改自己的资料
func UpdateUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)
	if uint32(id) != userID {
		utils.Fail(c, utils.ErrForbidden("只能修改自己的资料"))
		return
	}

	var req struct {
		Password    *string `json:"password"`
		Affiliation *string `json:"affiliation"`
		Website     *string `json:"website"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}

	if req.Password != nil {
		if len(*req.Password) < 8 {
			utils.Fail(c, utils.ErrValidation("密码至少 8 位"))
			return
		}
		user.Password = *req.Password
	}
	if req.Affiliation != nil {
		user.Affiliation = *req.Affiliation
	}
	if req.Website != nil {
		user.Website = *req.Website
	}

	if err := database.DB.Save(&user).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("更新失败"))
		return
	}
	utils.Success(c, nil)
}

// --- 管理员接口 ---

func GetUserList(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "20")

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	database.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := database.DB.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}

	utils.Success(c, gin.H{
		"total": total,
		"page":  page,
		"limit": limit,
		"users": users,
	})
}

func DeleteUser(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}
	utils.Success(c, nil)
}

func UpdateUserStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Status models.UserStatus `json:"status" binding:"required,oneof=active banned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("更新失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}
	utils.Success(c, nil)
}

// UpdateUserRole 仅 root_admin 可调用
func UpdateUserRole(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Role models.UserRole `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", id).Update("role", req.Role)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("更新失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}
	utils.Success(c, nil)
}
