// file: controllers/attachment_controller.go
package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"AstraCTF/database"
	"AstraCTF/dto"
	"AstraCTF/models"
	"AstraCTF/services"
	"AstraCTF/utils"
)

// AddAttachment —— 支持 JSON 外链 & multipart 上传
func AddAttachment(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, challengeID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	userIDAny, ok := c.Get("user_id")
	if !ok {
		utils.Fail(c, utils.ErrUnauthorized("未登录"))
		return
	}
	userID := userIDAny.(uint32)

	contentType := c.ContentType()
	var newAttachment models.Attachment
	newAttachment.ChallengeID = uint32(challengeID)
	newAttachment.CreatedBy = userID

	if contentType == "application/json" {
		// 外链方式
		var req dto.AddAttachmentURLReq
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
			return
		}
		newAttachment.Storage = models.StorageURL
		newAttachment.URL = req.URL
		newAttachment.FileName = req.FileName
		newAttachment.ContentType = "application/octet-stream"
		newAttachment.SHA256 = "URL_NOT_HASHED"
		newAttachment.Status = models.AttachmentStatusActive

	} else if strings.HasPrefix(contentType, "multipart/") {
		// 平台上传方式，经存储驱动落盘
		file, err := c.FormFile("file")
		if err != nil {
			utils.Fail(c, utils.ErrValidation("获取文件失败"))
			return
		}

		src, err := file.Open()
		if err != nil {
			utils.Fail(c, utils.ErrInternal("打开上传文件失败"))
			return
		}
		defer src.Close()

		objectKey, size, sum, err := services.Storage.Save(file.Filename, src)
		if err != nil {
			utils.Fail(c, utils.ErrInternal("保存文件失败"))
			return
		}

		newAttachment.Storage = models.StorageObject
		newAttachment.ObjectKey = objectKey
		newAttachment.FileName = file.Filename
		newAttachment.ContentType = file.Header.Get("Content-Type")
		newAttachment.FileSize = size
		newAttachment.SHA256 = sum
		// 默认待扫描，管理员确认后转 active
		newAttachment.Status = models.AttachmentStatusPendingScan

	} else {
		utils.Fail(c, utils.ErrValidation("不支持的 Content-Type"))
		return
	}

	if err := database.DB.Create(&newAttachment).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("创建附件记录失败"))
		return
	}

	utils.Created(c, gin.H{
		"attachment_id": newAttachment.ID,
		"status":        newAttachment.Status,
	})
}

// DownloadAttachment —— 统一网关下载：外链 302，本地文件直接返回
func DownloadAttachment(c *gin.Context) {
	attachmentID, _ := strconv.Atoi(c.Param("attachment_id"))

	var attachment models.Attachment
	if err := database.DB.First(&attachment, attachmentID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("附件不存在"))
		return
	}
	if attachment.Status != models.AttachmentStatusActive {
		role, _ := c.Get("user_role")
		if role != models.RoleAdmin && role != models.RoleRootAdmin {
			utils.Fail(c, utils.ErrNotFound("附件不存在"))
			return
		}
	}

	if attachment.Storage == models.StorageURL {
		c.Redirect(302, attachment.URL)
		return
	}

	localPath := services.Storage.LocalPath(attachment.ObjectKey)
	if localPath == "" {
		utils.Fail(c, utils.ErrInternal("存储驱动不支持直接下载"))
		return
	}
	c.FileAttachment(localPath, attachment.FileName)
}

// ListAttachments —— 列出题目所有附件；普通用户只能看到 active 状态的
func ListAttachments(c *gin.Context) {
	challengeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Fail(c, utils.ErrValidation("无效的题目ID"))
		return
	}

	var attachments []models.Attachment
	db := database.DB.Where("challenge_id = ?", challengeID).Order("sort_order asc, id asc")

	role, _ := c.Get("user_role")
	if role != models.RoleAdmin && role != models.RoleRootAdmin {
		db = db.Where("status = ?", models.AttachmentStatusActive)
	}

	if err := db.Find(&attachments).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询附件失败"))
		return
	}

	utils.Success(c, attachments)
}

// UpdateAttachmentStatus —— 管理员更新附件状态
func UpdateAttachmentStatus(c *gin.Context) {
	attachmentID, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil {
		utils.Fail(c, utils.ErrValidation("无效的附件ID"))
		return
	}

	var req struct {
		Status models.AttachmentStatus `json:"status" binding:"required,oneof=pending_scan active quarantined archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	var attachment models.Attachment
	if err := database.DB.First(&attachment, attachmentID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("附件不存在"))
		return
	}

	if err := database.DB.Model(&attachment).Update("status", req.Status).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("更新附件状态失败"))
		return
	}

	utils.Success(c, nil)
}

// DeleteAttachment —— 管理员删除附件
func DeleteAttachment(c *gin.Context) {
	attachmentID, err := strconv.Atoi(c.Param("attachment_id"))
	if err != nil {
		utils.Fail(c, utils.ErrValidation("无效的附件ID"))
		return
	}

	var attachment models.Attachment
	if err := database.DB.First(&attachment, attachmentID).Error; err != nil {
		// 记录不存在视为删除成功
		utils.Success(c, nil)
		return
	}

	if attachment.Storage == models.StorageObject && attachment.ObjectKey != "" {
		_ = services.Storage.Remove(attachment.ObjectKey)
	}

	if err := database.DB.Delete(&attachment).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("删除附件记录失败"))
		return
	}

	utils.Success(c, nil)
}
