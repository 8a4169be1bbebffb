// file: controllers/record_controller.go
package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// GetTeamSolves 查询指定队伍的解题记录
func GetTeamSolves(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	type SolveInfo struct {
		ChallengeID   uint32    `json:"challenge_id"`
		ChallengeName string    `json:"challenge_name"`
		Username      string    `json:"username"`
		SolvedAt      time.Time `json:"solved_at"`
	}

	var results []SolveInfo
	database.DB.Table("astra_solve r").
		Select("r.challenge_id, c.challenge_name, u.username, r.created_at AS solved_at").
		Joins("JOIN astra_challenge c ON r.challenge_id = c.id").
		Joins("JOIN astra_user u ON r.user_id = u.id").
		Where("r.team_id = ?", teamID).
		Order("r.created_at asc").
		Scan(&results)

	utils.Success(c, results)
}

// GetSubmissionLogs 管理员查询 Flag 提交日志（带筛选和分页）
func GetSubmissionLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	type LogDetail struct {
		ID            uint64    `json:"id"`
		ChallengeID   uint32    `json:"challenge_id"`
		ChallengeName string    `json:"challenge_name"`
		TeamID        *uint32   `json:"team_id"`
		TeamName      *string   `json:"team_name"`
		UserID        uint32    `json:"user_id"`
		Username      string    `json:"username"`
		SubmittedFlag string    `json:"submitted_flag"`
		Status        string    `json:"status"`
		SubmittedAt   time.Time `json:"submitted_at"`
		IPAddress     string    `json:"ip_address"`
		Suspected     bool      `json:"suspected"`
	}

	db := database.DB.Table("astra_submission l").
		Select("l.id, l.challenge_id, c.challenge_name, l.team_id, t.team_name, l.user_id, u.username, l.submitted_flag, l.status, l.submitted_at, l.ip_address, l.suspected").
		Joins("LEFT JOIN astra_challenge c ON l.challenge_id = c.id").
		Joins("LEFT JOIN astra_team t ON l.team_id = t.id").
		Joins("LEFT JOIN astra_user u ON l.user_id = u.id")

	if teamID := c.Query("team_id"); teamID != "" {
		db = db.Where("l.team_id = ?", teamID)
	}
	if challengeID := c.Query("challenge_id"); challengeID != "" {
		db = db.Where("l.challenge_id = ?", challengeID)
	}
	if userID := c.Query("user_id"); userID != "" {
		db = db.Where("l.user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("l.status = ?", status)
	}
	if suspected := c.Query("suspected"); suspected == "1" {
		db = db.Where("l.suspected = ?", true)
	}

	var total int64
	db.Count(&total)

	var results []LogDetail
	db.Order("l.submitted_at desc").Offset((page - 1) * size).Limit(size).Scan(&results)

	utils.Success(c, gin.H{
		"total": total,
		"page":  page,
		"size":  size,
		"logs":  results,
	})
}

// MarkSuspectSubmission 管理员手动标记可疑提交
func MarkSuspectSubmission(c *gin.Context) {
	logID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Suspected bool `json:"suspected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	result := database.DB.Model(&models.Submission{}).Where("id = ?", logID).Update("suspected", req.Suspected)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("更新失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("提交记录不存在"))
		return
	}

	utils.Success(c, nil)
}

// CompareFlagSubmissions 对比同一个 flag 的所有提交，用于排查抄袭
func CompareFlagSubmissions(c *gin.Context) {
	flag := c.Query("flag")
	if flag == "" {
		utils.Fail(c, utils.ErrValidation("缺少 flag 参数"))
		return
	}

	var first models.Submission
	if err := database.DB.Where("submitted_flag = ?", flag).First(&first).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(c, utils.ErrNotFound("没有该 flag 的提交记录"))
			return
		}
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}

	type CompareResult struct {
		TeamID      *uint32   `json:"team_id"`
		TeamName    *string   `json:"team_name"`
		UserID      uint32    `json:"user_id"`
		Username    string    `json:"username"`
		IPAddress   string    `json:"ip_address"`
		SubmittedAt time.Time `json:"submitted_at"`
	}

	var results []CompareResult
	database.DB.Table("astra_submission l").
		Select("l.team_id, t.team_name, l.user_id, u.username, l.ip_address, l.submitted_at").
		Joins("LEFT JOIN astra_team t ON l.team_id = t.id").
		Joins("JOIN astra_user u ON l.user_id = u.id").
		Where("l.submitted_flag = ?", flag).
		Order("l.submitted_at asc").
		Scan(&results)

	utils.Success(c, gin.H{
		"flag_value":  flag,
		"submissions": results,
	})
}
