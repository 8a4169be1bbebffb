// file: controllers/instance_controller.go
package controllers

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/services"
	"AstraCTF/utils"
)

var (
	instanceLifetime    = time.Hour
	instanceMaxRenewals = uint(3)
	// 每队同时运行的实例数上限
	maxRunningPerTeam = int64(2)
)

// InitInstanceSettings 在进程启动时注入实例相关配置
func InitInstanceSettings(lifetime time.Duration, maxRenewals uint) {
	if lifetime > 0 {
		instanceLifetime = lifetime
	}
	if maxRenewals > 0 {
		instanceMaxRenewals = maxRenewals
	}
}

// CreateInstance 为当前用户所在队伍启动题目环境
func CreateInstance(c *gin.Context) {
	var req struct {
		ChallengeID uint32 `json:"challenge_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var membership models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil {
		utils.Fail(c, utils.ErrValidation("你尚未加入任何队伍"))
		return
	}
	var team models.Team
	database.DB.First(&team, membership.TeamID)
	if team.TeamStatus == models.TeamStatusBanned {
		utils.Fail(c, utils.ErrForbidden("队伍已被封禁，无法启动环境"))
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, req.ChallengeID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}
	if challenge.DockerImage == "" {
		utils.Fail(c, utils.ErrValidation("该题目不提供独立环境"))
		return
	}

	// 同一队伍同一题目只允许一个运行中的实例
	var existing models.Instance
	err := database.DB.Where("team_id = ? AND challenge_id = ? AND state = ?",
		team.ID, challenge.ID, models.InstanceStateRunning).First(&existing).Error
	if err == nil {
		utils.Fail(c, utils.ErrConflict("该题目已有运行中的环境"))
		return
	}

	var runningCount int64
	database.DB.Model(&models.Instance{}).
		Where("team_id = ? AND state = ?", team.ID, models.InstanceStateRunning).
		Count(&runningCount)
	if runningCount >= maxRunningPerTeam {
		utils.Fail(c, utils.ErrConflict(fmt.Sprintf("队伍运行中的环境已达上限 (%d)", runningCount)))
		return
	}

	// 生成全局唯一的动态 Flag
	var instanceFlag string
	for {
		instanceFlag = utils.GenerateDynamicFlag()
		var count int64
		database.DB.Model(&models.Instance{}).Where("instance_flag = ?", instanceFlag).Count(&count)
		if count == 0 {
			break
		}
	}

	serviceID, serviceName, err := services.LaunchEnvironment(challenge, team.ID, instanceFlag)
	if err != nil {
		utils.Fail(c, utils.ErrInternal("Docker API Error: "+err.Error()))
		return
	}

	now := time.Now()
	newInstance := models.Instance{
		ServiceID:    serviceID,
		ChallengeID:  challenge.ID,
		TeamID:       team.ID,
		ServiceName:  serviceName,
		DockerImage:  challenge.DockerImage,
		DockerPorts:  challenge.DockerPorts,
		InstanceFlag: instanceFlag,
		State:        models.InstanceStateRunning,
		StartTime:    now,
		EndTime:      now.Add(instanceLifetime),
	}
	if err := database.DB.Create(&newInstance).Error; err != nil {
		// 数据库落库失败时回收已创建的服务
		_ = services.DestroyEnvironment(serviceID)
		utils.Fail(c, utils.ErrInternal("保存环境记录失败"))
		return
	}

	serviceInfo, _, err := services.GetEnvironmentInfo(serviceID)
	if err != nil {
		log.Printf("Warning: failed to inspect service %s to get port mapping: %v", serviceID, err)
		utils.Fail(c, utils.ErrInternal("环境已启动，但获取连接信息失败"))
		return
	}

	connectionInfo := make(map[string]string)
	for _, port := range serviceInfo.Endpoint.Ports {
		connectionInfo[strconv.Itoa(int(port.TargetPort))] = fmt.Sprintf(":%d", port.PublishedPort)
	}

	utils.Created(c, gin.H{
		"instance_id":     newInstance.ID,
		"connection_info": connectionInfo,
		"end_time":        newInstance.EndTime.Format("2006-01-02 15:04:05"),
	})
}

// DestroyInstance 销毁环境；非管理员只能销毁本队环境
func DestroyInstance(c *gin.Context) {
	instanceID, _ := strconv.Atoi(c.Param("id"))

	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)
	roleAny, _ := c.Get("user_role")
	userRole := roleAny.(models.UserRole)

	var instance models.Instance
	if err := database.DB.First(&instance, instanceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(c, utils.ErrNotFound("环境不存在"))
			return
		}
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}

	if userRole != models.RoleAdmin && userRole != models.RoleRootAdmin {
		var membership models.TeamMember
		if err := database.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil || membership.TeamID != instance.TeamID {
			utils.Fail(c, utils.ErrForbidden("只能销毁本队的环境"))
			return
		}
	}

	// 幂等：已销毁直接返回成功
	if instance.State == models.InstanceStateDestroyed {
		utils.Success(c, nil)
		return
	}

	if err := services.DestroyEnvironment(instance.ServiceID); err != nil {
		log.Printf("Warning: failed to destroy service %s: %v", instance.ServiceID, err)
	}

	instance.State = models.InstanceStateDestroyed
	database.DB.Save(&instance)

	utils.Success(c, nil)
}

// GetMyInstances 查询本队环境列表，并用 Docker 实况校正状态
func GetMyInstances(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var membership models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil {
		utils.Success(c, []gin.H{})
		return
	}

	var instances []models.Instance
	database.DB.Where("team_id = ?", membership.TeamID).Order("start_time desc").Find(&instances)

	type InstanceInfo struct {
		InstanceID    uint32 `json:"instance_id"`
		ChallengeID   uint32 `json:"challenge_id"`
		ChallengeName string `json:"challenge_name"`
		State         string `json:"state"`
		EndTime       string `json:"end_time"`
		ExtendedCount uint   `json:"extended_count"`
	}

	result := make([]InstanceInfo, 0, len(instances))
	for i := range instances {
		if instances[i].State == models.InstanceStateRunning {
			if !services.IsEnvironmentRunning(instances[i].ServiceID) {
				instances[i].State = models.InstanceStateDestroyed
				database.DB.Save(&instances[i])
			}
		}

		var chal models.Challenge
		database.DB.Select("challenge_name").First(&chal, instances[i].ChallengeID)
		result = append(result, InstanceInfo{
			InstanceID:    instances[i].ID,
			ChallengeID:   instances[i].ChallengeID,
			ChallengeName: chal.ChallengeName,
			State:         string(instances[i].State),
			EndTime:       instances[i].EndTime.Format("2006-01-02 15:04:05"),
			ExtendedCount: instances[i].ExtendedCount,
		})
	}

	utils.Success(c, result)
}

// RenewInstance 续期环境
func RenewInstance(c *gin.Context) {
	instanceID, _ := strconv.Atoi(c.Param("id"))

	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var instance models.Instance
	if err := database.DB.First(&instance, instanceID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("环境不存在"))
		return
	}

	var membership models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&membership).Error; err != nil || membership.TeamID != instance.TeamID {
		utils.Fail(c, utils.ErrForbidden("只能续期本队的环境"))
		return
	}

	if instance.ExtendedCount >= instanceMaxRenewals {
		utils.Fail(c, utils.ErrConflict("续期次数已达上限"))
		return
	}
	if instance.State != models.InstanceStateRunning {
		utils.Fail(c, utils.ErrConflict("环境未在运行"))
		return
	}

	var req struct {
		ExtraMinutes uint `json:"extra_minutes"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.ExtraMinutes == 0 || req.ExtraMinutes > 60 {
		req.ExtraMinutes = 30
	}

	instance.EndTime = instance.EndTime.Add(time.Duration(req.ExtraMinutes) * time.Minute)
	instance.ExtendedCount++
	database.DB.Save(&instance)

	utils.Success(c, gin.H{
		"instance_id":    instance.ID,
		"end_time":       instance.EndTime.Format("2006-01-02 15:04:05"),
		"extended_count": instance.ExtendedCount,
	})
}

// AdminListInstances 管理员查询全部运行中的环境
func AdminListInstances(c *gin.Context) {
	state := c.DefaultQuery("state", string(models.InstanceStateRunning))

	var instances []models.Instance
	db := database.DB.Order("start_time desc")
	if state != "all" {
		db = db.Where("state = ?", state)
	}
	db.Find(&instances)

	utils.Success(c, instances)
}

// CleanupExpiredInstances 定时回收到期环境
func CleanupExpiredInstances() {
	var expired []models.Instance
	database.DB.Where("state = ? AND end_time < ?", models.InstanceStateRunning, time.Now()).Find(&expired)

	for i := range expired {
		if err := services.DestroyEnvironment(expired[i].ServiceID); err != nil {
			log.Printf("Warning: failed to destroy expired service %s: %v", expired[i].ServiceID, err)
		}
		expired[i].State = models.InstanceStateDestroyed
		database.DB.Save(&expired[i])
	}
	if len(expired) > 0 {
		log.Printf("Cleaned up %d expired instances.", len(expired))
	}
}
