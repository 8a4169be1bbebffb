// file: controllers/award_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/services"
	"AstraCTF/utils"
)

// CreateAward 管理员为用户手动加减分；负值即处罚
func CreateAward(c *gin.Context) {
	var req struct {
		UserID      uint32 `json:"user_id" binding:"required"`
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description"`
		Value       int    `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	var user models.User
	if err := database.DB.First(&user, req.UserID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("用户不存在"))
		return
	}

	adminIDAny, _ := c.Get("user_id")

	award := models.Award{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Value:       req.Value,
		CreatedBy:   adminIDAny.(uint32),
	}
	if err := database.DB.Create(&award).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("创建奖励失败"))
		return
	}

	// 加减分影响总分，异步重建排行榜
	go services.UpdateScoreboardCache()

	utils.Created(c, gin.H{"id": award.ID})
}

// GetUserAwards 查询用户的奖励/处罚记录
func GetUserAwards(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Param("id"))

	var awards []models.Award
	if err := database.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&awards).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}
	utils.Success(c, awards)
}

// DeleteAward 管理员撤销一条奖励/处罚
func DeleteAward(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.Award{}, id)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("记录不存在"))
		return
	}

	go services.UpdateScoreboardCache()

	utils.Success(c, nil)
}
