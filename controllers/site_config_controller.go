// file: controllers/site_config_controller.go
package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// GetPublicSiteConfig 查询公开站点配置（无需登录）
func GetPublicSiteConfig(c *gin.Context) {
	var configs []models.SiteConfig
	if err := database.DB.Where("public = ?", true).Find(&configs).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询站点配置失败"))
		return
	}

	result := make(map[string]string, len(configs))
	for _, cfg := range configs {
		result[cfg.Key] = cfg.Value
	}
	utils.Success(c, result)
}

// GetAllSiteConfig 管理员查询全部站点配置
func GetAllSiteConfig(c *gin.Context) {
	var configs []models.SiteConfig
	if err := database.DB.Order("`key` asc").Find(&configs).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询站点配置失败"))
		return
	}
	utils.Success(c, configs)
}

// UpsertSiteConfig 管理员批量写入站点配置，存在则更新
func UpsertSiteConfig(c *gin.Context) {
	var req struct {
		Configs []struct {
			Key    string `json:"key" binding:"required,max=100"`
			Value  string `json:"value"`
			Public bool   `json:"public"`
		} `json:"configs" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	for _, item := range req.Configs {
		cfg := models.SiteConfig{
			Key:    item.Key,
			Value:  item.Value,
			Public: item.Public,
		}
		if err := database.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "public"}),
		}).Create(&cfg).Error; err != nil {
			utils.Fail(c, utils.ErrInternal("写入站点配置失败"))
			return
		}
	}

	utils.Success(c, gin.H{"updated": len(req.Configs)})
}

// DeleteSiteConfig 管理员删除配置项
func DeleteSiteConfig(c *gin.Context) {
	key := c.Param("key")

	result := database.DB.Where("`key` = ?", key).Delete(&models.SiteConfig{})
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("删除配置失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("配置项不存在"))
		return
	}
	utils.Success(c, nil)
}
