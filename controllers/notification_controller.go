// file: controllers/notification_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// CreateNotification 管理员发布公告
func CreateNotification(c *gin.Context) {
	var req struct {
		Title   string                   `json:"title" binding:"required,max=200"`
		Content string                   `json:"content" binding:"required"`
		Level   models.NotificationLevel `json:"level" binding:"omitempty,oneof=info important"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}
	if req.Level == "" {
		req.Level = models.NotificationInfo
	}

	userIDAny, _ := c.Get("user_id")

	notif := models.Notification{
		Title:     req.Title,
		Content:   req.Content,
		Level:     req.Level,
		CreatedBy: userIDAny.(uint32),
	}
	if err := database.DB.Create(&notif).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("发布公告失败"))
		return
	}

	utils.Created(c, gin.H{"id": notif.ID})
}

// GetNotifications 查询公告列表（最新在前）
func GetNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	if err := database.DB.Order("created_at desc").Limit(limit).Find(&notifications).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询公告失败"))
		return
	}
	utils.Success(c, notifications)
}

// DeleteNotification 管理员删除公告
func DeleteNotification(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.Notification{}, id)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("删除公告失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("公告不存在"))
		return
	}
	utils.Success(c, nil)
}
