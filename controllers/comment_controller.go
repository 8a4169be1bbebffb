// file: controllers/comment_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// CreateComment 用户对题目发表评论，可附带评分
func CreateComment(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, challengeID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=2000"`
		Rating  *uint8 `json:"rating" binding:"omitempty,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	userIDAny, _ := c.Get("user_id")

	comment := models.Comment{
		ChallengeID: uint32(challengeID),
		UserID:      userIDAny.(uint32),
		Content:     req.Content,
		Rating:      req.Rating,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("发表评论失败"))
		return
	}

	utils.Created(c, gin.H{"id": comment.ID})
}

// GetComments 查询题目评论列表，附带平均评分
func GetComments(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var comments []models.Comment
	if err := database.DB.Preload("User").
		Where("challenge_id = ?", challengeID).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询评论失败"))
		return
	}

	var avg struct {
		AvgRating *float64
		Rated     int64
	}
	database.DB.Model(&models.Comment{}).
		Select("AVG(rating) AS avg_rating, COUNT(rating) AS rated").
		Where("challenge_id = ? AND rating IS NOT NULL", challengeID).
		Scan(&avg)

	utils.Success(c, gin.H{
		"comments":   comments,
		"avg_rating": avg.AvgRating,
		"rated":      avg.Rated,
	})
}

// DeleteComment 删除评论；本人或管理员可删
func DeleteComment(c *gin.Context) {
	commentID, _ := strconv.Atoi(c.Param("comment_id"))

	var comment models.Comment
	if err := database.DB.First(&comment, commentID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("评论不存在"))
		return
	}

	userIDAny, _ := c.Get("user_id")
	role, _ := c.Get("user_role")
	isAdmin := role == models.RoleAdmin || role == models.RoleRootAdmin
	if comment.UserID != userIDAny.(uint32) && !isAdmin {
		utils.Fail(c, utils.ErrForbidden("只能删除自己的评论"))
		return
	}

	if err := database.DB.Delete(&comment).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("删除评论失败"))
		return
	}
	utils.Success(c, nil)
}
