// file: controllers/team_controller.go
package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// isUserInTeam 检查用户是否已在队伍中
func isUserInTeam(userID uint32) (bool, error) {
	var count int64
	err := database.DB.Model(&models.TeamMember{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func CreateTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	inTeam, err := isUserInTeam(userID)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}
	if inTeam {
		utils.Fail(c, utils.ErrValidation("已在队伍中，不能重复创建"))
		return
	}

	var req struct {
		TeamName     string `json:"team_name" binding:"required"`
		TeamDescribe string `json:"team_describe"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	var existingTeam models.Team
	if err := database.DB.Where("team_name = ?", req.TeamName).First(&existingTeam).Error; err == nil {
		utils.Fail(c, utils.ErrValidation("队伍名已存在"))
		return
	}

	invitationCode := utils.GenerateInvitationCode(12)

	newTeam := models.Team{
		TeamName:       req.TeamName,
		LeaderID:       userID,
		InvitationCode: invitationCode,
		TeamDescribe:   req.TeamDescribe,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newTeam).Error; err != nil {
			return err
		}
		leaderMember := models.TeamMember{
			TeamID:   newTeam.ID,
			UserID:   userID,
			Role:     models.TeamRoleLeader,
			JoinedAt: time.Now(),
		}
		return tx.Create(&leaderMember).Error
	})

	if err != nil {
		utils.Fail(c, utils.ErrInternal("创建队伍失败"))
		return
	}

	utils.Created(c, gin.H{
		"id":              newTeam.ID,
		"team_name":       newTeam.TeamName,
		"leader_id":       newTeam.LeaderID,
		"invitation_code": newTeam.InvitationCode,
	})
}

func JoinTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var req struct {
		InvitationCode string `json:"invitation_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	inTeam, err := isUserInTeam(userID)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}
	if inTeam {
		utils.Fail(c, utils.ErrValidation("已在队伍中，不能重复加入"))
		return
	}

	var targetTeam models.Team
	if err := database.DB.Where("invitation_code = ?", req.InvitationCode).First(&targetTeam).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("邀请码无效"))
		return
	}
	if targetTeam.TeamStatus == models.TeamStatusBanned {
		utils.Fail(c, utils.ErrForbidden("队伍已被封禁"))
		return
	}

	newMember := models.TeamMember{
		TeamID:   targetTeam.ID,
		UserID:   userID,
		Role:     models.TeamRoleMember,
		JoinedAt: time.Now(),
	}
	if err := database.DB.Create(&newMember).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("加入队伍失败"))
		return
	}

	utils.Success(c, gin.H{
		"team_id":   targetTeam.ID,
		"team_name": targetTeam.TeamName,
	})
}

func LeaveTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var member models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&member).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("尚未加入任何队伍"))
		return
	}

	if member.Role == models.TeamRoleLeader {
		utils.Fail(c, utils.ErrValidation("队长不能直接退出，请先转让队长或解散队伍"))
		return
	}

	if err := database.DB.Delete(&member).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("退出队伍失败"))
		return
	}

	utils.Success(c, nil)
}

func KickMember(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))
	memberUserID, _ := strconv.Atoi(c.Param("user_id"))

	leaderIDAny, _ := c.Get("user_id")
	leaderID := leaderIDAny.(uint32)

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil || team.LeaderID != leaderID {
		utils.Fail(c, utils.ErrForbidden("只有队长可以移除队员"))
		return
	}

	if uint32(memberUserID) == leaderID {
		utils.Fail(c, utils.ErrValidation("不能移除队长自己"))
		return
	}

	result := database.DB.Where("team_id = ? AND user_id = ?", teamID, memberUserID).Delete(&models.TeamMember{})
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("移除队员失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("该队员不在此队伍中"))
		return
	}

	utils.Success(c, nil)
}

func DisbandTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	leaderIDAny, _ := c.Get("user_id")
	leaderID := leaderIDAny.(uint32)

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("队伍不存在"))
		return
	}

	if team.LeaderID != leaderID {
		utils.Fail(c, utils.ErrForbidden("只有队长可以解散队伍"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		utils.Fail(c, utils.ErrInternal("解散队伍失败"))
		return
	}

	utils.Success(c, nil)
}

func UpdateTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.ErrValidation("无效的队伍ID"))
		return
	}
	leaderIDAny, _ := c.Get("user_id")
	leaderID := leaderIDAny.(uint32)

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("队伍不存在"))
		return
	}

	if team.LeaderID != leaderID {
		utils.Fail(c, utils.ErrForbidden("只有队长可以修改队伍信息"))
		return
	}

	var req struct {
		TeamDescribe string `json:"team_describe"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	if err := database.DB.Model(&team).Update("team_describe", req.TeamDescribe).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("更新队伍信息失败"))
		return
	}

	utils.Success(c, nil)
}
