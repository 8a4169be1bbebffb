// file: controllers/contest_controller.go
package controllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// ensureContestRunning 未配置比赛时不限制提交；配置后只在 running 窗口内放行
func ensureContestRunning() error {
	var contest models.Contest
	if err := database.DB.First(&contest, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return utils.ErrInternal("查询比赛信息失败")
	}
	if contest.StatusAt(time.Now()) != models.ContestStatusRunning {
		return utils.ErrForbidden("比赛未在进行中")
	}
	return nil
}

// GetCurrentContest 查询当前比赛基本信息
func GetCurrentContest(c *gin.Context) {
	var contest models.Contest
	// 约定 ID 为 1 的记录是当前比赛
	if err := database.DB.First(&contest, 1).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("当前没有比赛"))
		return
	}

	utils.Success(c, gin.H{
		"contest_id":    contest.ID,
		"contest_name":  contest.ContestName,
		"cover_image":   contest.CoverImage,
		"description":   contest.Description,
		"start_time":    contest.StartTime.Format("2006-01-02 15:04:05"),
		"end_time":      contest.EndTime.Format("2006-01-02 15:04:05"),
		"organizer_url": contest.OrganizerURL,
		"status":        contest.StatusAt(time.Now()),
	})
}

// GetContestStatus 查询比赛状态和剩余时间
func GetContestStatus(c *gin.Context) {
	var contest models.Contest
	if err := database.DB.First(&contest, 1).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("当前没有比赛"))
		return
	}

	now := time.Now()
	status := contest.StatusAt(now)

	var remainingTime string
	switch status {
	case models.ContestStatusPreparing:
		remainingTime = contest.StartTime.Sub(now).Round(time.Second).String()
	case models.ContestStatusEnded:
		remainingTime = "0s"
	default:
		remainingTime = contest.EndTime.Sub(now).Round(time.Second).String()
	}

	utils.Success(c, gin.H{
		"status":         status,
		"now":            now.Format("2006-01-02 15:04:05"),
		"remaining_time": remainingTime,
	})
}

// --- 管理员接口 ---

// UpsertContest 创建或修改比赛信息（单例，ID=1）
func UpsertContest(c *gin.Context) {
	var req models.Contest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.Fail(c, utils.ErrValidation("结束时间必须晚于开始时间"))
		return
	}

	// Upsert：存在则更新，不存在则创建
	req.ID = 1
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"contest_name", "cover_image", "description", "start_time", "end_time", "organizer_url"}),
	}).Create(&req).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("保存比赛信息失败"))
		return
	}

	utils.Success(c, gin.H{"contest_id": req.ID})
}
