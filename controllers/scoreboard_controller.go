// file: controllers/scoreboard_controller.go
package controllers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/services"
	"AstraCTF/utils"
)

// GetScoreboard 查询排行榜（scope=user 或 team）
func GetScoreboard(c *gin.Context) {
	scope := c.DefaultQuery("scope", "user")
	if scope != string(models.ScopeUser) && scope != string(models.ScopeTeam) {
		utils.Fail(c, utils.ErrValidation("scope 仅支持 user 或 team"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	// 先查 Redis 缓存
	cacheKey := fmt.Sprintf("scoreboard:%s:%d", scope, limit)
	val, err := database.RDB.Get(database.Ctx, cacheKey).Result()
	if err == nil {
		var cached []models.Scoreboard
		if json.Unmarshal([]byte(val), &cached) == nil {
			utils.Success(c, cached)
			return
		}
	}

	var results []models.Scoreboard
	// rank 是保留字，要加反引号
	if err := database.DB.Where("scope = ?", scope).Order("`rank` asc").Limit(limit).Find(&results).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询排行榜失败"))
		return
	}

	// 缓存 15 秒，保证排行榜的准实时性
	if jsonData, err := json.Marshal(results); err == nil {
		database.RDB.Set(database.Ctx, cacheKey, jsonData, 15*time.Second)
	}

	utils.Success(c, results)
}

// GetSolveFeed 查询实时解题动态
func GetSolveFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var results []models.SolveFeed
	database.DB.Order("solving_time desc").Limit(limit).Find(&results)

	utils.Success(c, results)
}

// RefreshScoreboard 管理员手动触发排行榜重建
func RefreshScoreboard(c *gin.Context) {
	services.UpdateScoreboardCache()
	utils.Success(c, gin.H{"refreshed": true})
}
