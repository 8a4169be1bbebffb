// file: controllers/category_controller.go
package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/models"
	"AstraCTF/utils"
)

// CreateCategory 新增题目分类
func CreateCategory(c *gin.Context) {
	var req struct {
		Direction   string `json:"direction" binding:"required"`
		Alias       string `json:"alias"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	var existing models.Category
	if err := database.DB.Where("direction = ?", req.Direction).First(&existing).Error; err == nil {
		utils.Fail(c, utils.ErrValidation("分类已存在"))
		return
	}

	newCategory := models.Category{
		Direction:   req.Direction,
		Alias:       req.Alias,
		Description: req.Description,
	}

	if err := database.DB.Create(&newCategory).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("数据库错误"))
		return
	}

	utils.Created(c, gin.H{
		"id":        newCategory.ID,
		"direction": newCategory.Direction,
	})
}

// GetCategoryList 查询分类列表
func GetCategoryList(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("id asc").Find(&categories).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}
	utils.Success(c, categories)
}

// GetCategoryDetail 查询分类详情
func GetCategoryDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("分类不存在"))
		return
	}
	utils.Success(c, category)
}

// UpdateCategory 管理员更新分类
func UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var category models.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("分类不存在"))
		return
	}

	var req struct {
		Alias       *string `json:"alias"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效"))
		return
	}

	updates := map[string]interface{}{}
	if req.Alias != nil {
		updates["alias"] = *req.Alias
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
			utils.Fail(c, utils.ErrInternal("更新失败"))
			return
		}
	}
	utils.Success(c, nil)
}

// DeleteCategory 管理员删除分类；存量题目引用时拒绝删除
func DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var inUse int64
	database.DB.Model(&models.Challenge{}).Where("category_id = ?", id).Count(&inUse)
	if inUse > 0 {
		utils.Fail(c, utils.ErrValidation("该分类下仍有题目，不能删除"))
		return
	}

	result := database.DB.Delete(&models.Category{}, id)
	if result.Error != nil {
		utils.Fail(c, utils.ErrInternal("删除失败"))
		return
	}
	if result.RowsAffected == 0 {
		utils.Fail(c, utils.ErrNotFound("分类不存在"))
		return
	}
	utils.Success(c, nil)
}
