// file: controllers/challenge_controller.go
package controllers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"AstraCTF/database"
	"AstraCTF/dto"
	"AstraCTF/mappers"
	"AstraCTF/middlewares"
	"AstraCTF/models"
	"AstraCTF/services"
	"AstraCTF/utils"
)

var (
	scoringService *services.ScoringService
	attemptService *services.AttemptService
	challengeStore services.Store
)

// InitServices 在进程入口把存储实例注入计分核心，避免核心逻辑依赖全局 DB
func InitServices(store services.Store) {
	challengeStore = store
	scoringService = services.NewScoringService(store)
	attemptService = services.NewAttemptService(store, scoringService)
}

func isValidType(t string) bool {
	return t == string(models.TypeStandard) || t == string(models.TypeDynamic)
}

func isValidFunction(f string) bool {
	switch models.DecayFunction(f) {
	case models.DecayStatic, models.DecayLog, models.DecayExp, models.DecayLinear:
		return true
	}
	return false
}

// solvedCountMap 一次性查出各题解题数
func solvedCountMap(challengeIDs []uint32) map[uint32]int64 {
	counts := make(map[uint32]int64, len(challengeIDs))
	if len(challengeIDs) == 0 {
		return counts
	}
	type row struct {
		ChallengeID uint32
		Cnt         int64
	}
	var rows []row
	database.DB.Model(&models.Solve{}).
		Select("challenge_id, COUNT(*) AS cnt").
		Where("challenge_id IN ?", challengeIDs).
		Group("challenge_id").
		Scan(&rows)
	for _, r := range rows {
		counts[r.ChallengeID] = r.Cnt
	}
	return counts
}

// CreateChallenge —— 管理员创建题目
func CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}
	req.Normalize()

	// 必填校验统一在这里做，避免绑定阶段因别名导致的校验失败
	if req.ChallengeName == "" || req.CategoryID == 0 || req.Author == "" ||
		req.Description == "" || req.Initial == 0 {
		utils.Fail(c, utils.ErrValidation("缺少必填字段"))
		return
	}
	if !isValidType(req.Type) {
		utils.Fail(c, utils.ErrValidation("type 取值无效（STANDARD/DYNAMIC）"))
		return
	}
	if !isValidFunction(req.Function) {
		utils.Fail(c, utils.ErrValidation("function 取值无效（static/log/exp/linear）"))
		return
	}
	if req.Flag == "" && strings.TrimSpace(req.DockerImage) == "" {
		utils.Fail(c, utils.ErrValidation("必须提供 Flag 或 Docker 镜像"))
		return
	}
	if req.Minimum < 0 || req.Minimum > req.Initial {
		utils.Fail(c, utils.ErrValidation("minimum must be ≤ initial"))
		return
	}
	if req.Decay < 0 {
		utils.Fail(c, utils.ErrValidation("decay 不能为负数"))
		return
	}
	if req.Difficulty != "easy" && req.Difficulty != "medium" && req.Difficulty != "hard" {
		utils.Fail(c, utils.ErrValidation("difficulty 取值无效（easy/medium/hard）"))
		return
	}

	// 分类存在性校验
	var cat models.Category
	if err := database.DB.First(&cat, req.CategoryID).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目分类不存在"))
		return
	}

	chal := mappers.MapCreateReqToModel(req)
	if err := database.DB.Create(&chal).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("创建题目失败"))
		return
	}

	// DYNAMIC 题创建后立即计算一次初始分值
	if chal.Type == models.TypeDynamic {
		if _, err := scoringService.SyncValue(c.Request.Context(), chal.ID); err != nil {
			utils.Fail(c, err)
			return
		}
	}

	utils.Created(c, gin.H{"id": chal.ID})
}

// ListChallenges —— 用户可见的题目列表
func ListChallenges(c *gin.Context) {
	var challenges []models.Challenge
	db := database.DB.Model(&models.Challenge{}).
		Where("state = ?", models.ChallengeStateVisible).
		Preload("Category")

	if err := db.Find(&challenges).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}

	ids := make([]uint32, 0, len(challenges))
	for _, ch := range challenges {
		ids = append(ids, ch.ID)
	}
	counts := solvedCountMap(ids)

	items := make([]dto.ChallengeItemResp, 0, len(challenges))
	for _, ch := range challenges {
		items = append(items, mappers.MapModelToItemResp(ch, counts[ch.ID]))
	}

	utils.Success(c, gin.H{
		"total":      len(items),
		"challenges": items,
	})
}

// GetChallengeDetail —— 用户可见的题目详情
func GetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.Preload("Category").First(&challenge, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}
	if challenge.State != models.ChallengeStateVisible {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	var attachments []models.Attachment
	if err := database.DB.
		Where("challenge_id = ? AND status = ?", id, models.AttachmentStatusActive).
		Find(&attachments).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("附件查询失败"))
		return
	}

	counts := solvedCountMap([]uint32{challenge.ID})
	utils.Success(c, mappers.MapModelToDetailResp(challenge, attachments, counts[challenge.ID]))
}

// AttemptChallenge —— 提交 Flag 判题
func AttemptChallenge(c *gin.Context) {
	var req dto.AttemptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}
	req.Normalize()
	if req.ChallengeID == 0 || req.Flag == "" {
		utils.Fail(c, utils.ErrValidation("缺少 challengeId 或 flag"))
		return
	}

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Fail(c, utils.ErrUnauthorized("未登录"))
		return
	}
	userID := userIDAny.(uint32)

	// 比赛窗口之外不接受提交
	if err := ensureContestRunning(); err != nil {
		utils.Fail(c, err)
		return
	}

	teamID := currentTeamID(userID)

	result, err := attemptService.Attempt(c.Request.Context(), services.AttemptInput{
		UserID:      userID,
		TeamID:      teamID,
		ChallengeID: req.ChallengeID,
		Flag:        req.Flag,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	if result.Correct {
		middlewares.FlagSubmissionsTotal.WithLabelValues("correct").Inc()
		// 重复答对不新建解题行，也不重复发动态、重建排行榜
		if result.NewSolve {
			recordSolveSideEffects(c.Request.Context(), userID, teamID, req.ChallengeID)
		}
	} else {
		middlewares.FlagSubmissionsTotal.WithLabelValues("incorrect").Inc()
	}

	utils.Success(c, result)
}

// recordSolveSideEffects 首次答对后的附带动作：解题动态 + 排行榜重建
func recordSolveSideEffects(ctx context.Context, userID uint32, teamID *uint32, challengeID uint32) {
	var challenge models.Challenge
	if err := database.DB.Select("id", "challenge_name").First(&challenge, challengeID).Error; err != nil {
		return
	}
	// 生效分值走存储接口取，DYNAMIC 题拿到的是刚同步完的缓存值
	score, err := challengeStore.GetEffectiveChallengeValue(ctx, challengeID)
	if err != nil {
		return
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return
	}
	teamName := ""
	if teamID != nil {
		var team models.Team
		if err := database.DB.First(&team, *teamID).Error; err == nil {
			teamName = team.TeamName
		}
	}
	services.AddSolveToFeed(challenge, user, teamID, teamName, score)
	go services.UpdateScoreboardCache()
}

// currentTeamID 查询用户当前队伍，未组队返回 nil
func currentTeamID(userID uint32) *uint32 {
	var member models.TeamMember
	if err := database.DB.Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil
	}
	return &member.TeamID
}

// validateScoringBounds 把局部更新与存量参数合并后校验下限不高于基准分。
// 只传 minimum 或只传 initial 时，另一侧取数据库里的现值。
func validateScoringBounds(challenge models.Challenge, req dto.UpdateScoringReq) error {
	base := challenge.Points
	if req.Initial != nil {
		base = *req.Initial
	}
	minimum := challenge.Minimum
	if req.Minimum != nil {
		minimum = *req.Minimum
	}
	if minimum > base {
		return utils.ErrValidation("minimum must be ≤ initial")
	}
	return nil
}

// UpdateChallengeScoring —— 管理员更新计分参数并立即重算分值
func UpdateChallengeScoring(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req dto.UpdateScoringReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}
	req.Normalize()

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	if req.Type != nil && !isValidType(*req.Type) {
		utils.Fail(c, utils.ErrValidation("type 取值无效（STANDARD/DYNAMIC）"))
		return
	}
	if req.Function != nil && !isValidFunction(*req.Function) {
		utils.Fail(c, utils.ErrValidation("function 取值无效（static/log/exp/linear）"))
		return
	}
	if req.Initial != nil && *req.Initial < 0 {
		utils.Fail(c, utils.ErrValidation("initial 不能为负数"))
		return
	}
	if req.Minimum != nil && *req.Minimum < 0 {
		utils.Fail(c, utils.ErrValidation("minimum 不能为负数"))
		return
	}
	if req.Decay != nil && *req.Decay < 0 {
		utils.Fail(c, utils.ErrValidation("decay 不能为负数"))
		return
	}
	if err := validateScoringBounds(challenge, req); err != nil {
		utils.Fail(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Function != nil {
		updates["function"] = *req.Function
	}
	if req.Initial != nil {
		updates["points"] = *req.Initial
	}
	if req.Minimum != nil {
		updates["minimum"] = *req.Minimum
	}
	if req.Decay != nil {
		updates["decay"] = *req.Decay
	}
	if len(updates) > 0 {
		if err := database.DB.Model(&challenge).Updates(updates).Error; err != nil {
			utils.Fail(c, utils.ErrInternal("更新计分参数失败"))
			return
		}
	}

	// 参数落库后立即重算，让调用方拿到新参数下的分值预览
	if _, err := scoringService.SyncValue(c.Request.Context(), challenge.ID); err != nil {
		utils.Fail(c, err)
		return
	}

	var refreshed models.Challenge
	if err := database.DB.First(&refreshed, id).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}
	utils.Success(c, mappers.MapModelToScoringResp(refreshed))
}

// GetChallengeValue —— 管理员预览当前值与最新计算值（不落库）
func GetChallengeValue(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	preview, err := scoringService.PreviewValue(c.Request.Context(), uint32(id))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, preview)
}

// UpdateChallenge —— 管理员更新题目基础信息
func UpdateChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	var req dto.UpdateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, utils.ErrValidation("参数无效: "+err.Error()))
		return
	}

	updates := map[string]interface{}{}
	if req.State != nil {
		if *req.State != string(models.ChallengeStateVisible) && *req.State != string(models.ChallengeStateHidden) {
			utils.Fail(c, utils.ErrValidation("state 取值无效（visible/hidden）"))
			return
		}
		updates["state"] = *req.State
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Hint != nil {
		updates["hint"] = *req.Hint
	}
	if req.Difficulty != nil {
		updates["difficulty"] = *req.Difficulty
	}
	if req.Flag != nil {
		updates["flag"] = *req.Flag
	}
	if req.DockerImage != nil {
		updates["docker_image"] = *req.DockerImage
	}
	if req.DockerPorts != nil {
		updates["docker_ports"] = *req.DockerPorts
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&challenge).Updates(updates).Error; err != nil {
			utils.Fail(c, utils.ErrInternal("更新题目失败"))
			return
		}
	}
	utils.Success(c, nil)
}

// DeleteChallenge —— 管理员删除题目，级联清理解题/提交/附件/评论/实例
func DeleteChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.Solve{}, &models.Submission{}, &models.Attachment{},
			&models.Comment{}, &models.Instance{},
		} {
			if err := tx.Where("challenge_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&challenge).Error
	})
	if err != nil {
		utils.Fail(c, utils.ErrInternal("删除题目失败"))
		return
	}

	go services.UpdateScoreboardCache()
	utils.Success(c, nil)
}

// AdminListChallenges —— 管理员查询题目列表（可见/隐藏均可，支持筛选+分页）
func AdminListChallenges(c *gin.Context) {
	categoryIDStr := c.Query("category_id")
	typ := strings.TrimSpace(c.Query("type"))        // STANDARD/DYNAMIC
	diff := strings.TrimSpace(c.Query("difficulty")) // easy/medium/hard
	state := strings.TrimSpace(c.Query("state"))     // visible/hidden
	kw := strings.TrimSpace(c.Query("keyword"))      // 模糊匹配 name/description
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "10")

	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.DB.Model(&models.Challenge{}).Preload("Category")

	if categoryIDStr != "" {
		if cid, err := strconv.Atoi(categoryIDStr); err == nil && cid > 0 {
			db = db.Where("category_id = ?", cid)
		}
	}
	if typ != "" {
		db = db.Where("type = ?", models.ChallengeType(typ))
	}
	if diff != "" {
		db = db.Where("difficulty = ?", models.ChallengeDifficulty(diff))
	}
	if state != "" {
		db = db.Where("state = ?", models.ChallengeState(state))
	}
	if kw != "" {
		like := "%" + kw + "%"
		db = db.Where("challenge_name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}

	var list []models.Challenge
	if err := db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("查询失败"))
		return
	}

	ids := make([]uint32, 0, len(list))
	for _, ch := range list {
		ids = append(ids, ch.ID)
	}
	counts := solvedCountMap(ids)

	items := make([]dto.AdminChallengeItemResp, 0, len(list))
	for _, ch := range list {
		items = append(items, dto.AdminChallengeItemResp{
			ID:            ch.ID,
			ChallengeName: ch.ChallengeName,
			Category:      ch.Category.Alias,
			Difficulty:    string(ch.Difficulty),
			Type:          string(ch.Type),
			State:         string(ch.State),
			Value:         ch.EffectiveValue(),
			SolvedCount:   counts[ch.ID],
			UpdatedAt:     ch.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"challenges": items,
	})
}

// AdminGetChallengeDetail —— 管理员查询题目详情（不受可见性限制，附件返回所有状态）
func AdminGetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var ch models.Challenge
	if err := database.DB.Preload("Category").First(&ch, id).Error; err != nil {
		utils.Fail(c, utils.ErrNotFound("题目不存在"))
		return
	}

	var atts []models.Attachment
	if err := database.DB.
		Where("challenge_id = ?", id).
		Order("sort_order ASC, id ASC").
		Find(&atts).Error; err != nil {
		utils.Fail(c, utils.ErrInternal("附件查询失败"))
		return
	}

	mini := make([]dto.AdminAttachmentMini, 0, len(atts))
	for _, a := range atts {
		mini = append(mini, dto.AdminAttachmentMini{
			ID:       a.ID,
			FileName: a.FileName,
			Size:     a.FileSize,
			SHA256:   a.SHA256,
			Status:   string(a.Status),
			Storage:  string(a.Storage),
		})
	}

	counts := solvedCountMap([]uint32{ch.ID})
	resp := dto.AdminChallengeDetailResp{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		Category:      ch.Category.Alias,
		Author:        ch.Author,
		Description:   ch.Description,
		Hint:          ch.Hint,
		Type:          string(ch.Type),
		Function:      string(ch.Function),
		Difficulty:    string(ch.Difficulty),
		State:         string(ch.State),
		Flag:          ch.Flag,
		DockerImage:   ch.DockerImage,
		DockerPorts:   ch.DockerPorts,
		Initial:       ch.Points,
		Minimum:       ch.Minimum,
		Decay:         ch.Decay,
		Value:         ch.Value,
		SolvedCount:   counts[ch.ID],
		Attachments:   mini,
		CreatedAt:     ch.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     ch.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	utils.Success(c, resp)
}
