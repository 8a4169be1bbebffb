// file: services/scoreboard_service.go
package services

import (
	"log"
	"sort"
	"time"

	"gorm.io/gorm"

	"AstraCTF/database"
	"AstraCTF/models"
)

// subjectScore 聚合查询的中间结果（用户或队伍一行）
type subjectScore struct {
	SubjectID     uint32
	SubjectName   string
	TotalScore    int
	LastSolveTime time.Time
}

// UpdateScoreboardCache 重新计算并整表重建排行榜缓存（用户榜 + 队伍榜）。
// 生效分值：DYNAMIC 题取缓存 value（未计算过回退 points），STANDARD 题取 points；
// 用户总分另加奖励分。
func UpdateScoreboardCache() {
	log.Println("Starting to update scoreboard cache...")

	const effective = "CASE WHEN c.type = 'DYNAMIC' THEN COALESCE(c.value, c.points) ELSE c.points END"

	var userScores []subjectScore
	database.DB.Table("astra_solve r").
		Select("r.user_id AS subject_id, u.username AS subject_name, SUM("+effective+") AS total_score, MAX(r.created_at) AS last_solve_time").
		Joins("JOIN astra_challenge c ON r.challenge_id = c.id").
		Joins("JOIN astra_user u ON r.user_id = u.id").
		Where("u.status = ?", models.StatusActive).
		Group("r.user_id, u.username").
		Scan(&userScores)

	// 奖励分单独聚合后合并
	type awardSum struct {
		UserID uint32
		Total  int
	}
	var awardSums []awardSum
	database.DB.Table("astra_award").
		Select("user_id, SUM(value) AS total").
		Group("user_id").
		Scan(&awardSums)
	awardByUser := make(map[uint32]int, len(awardSums))
	for _, a := range awardSums {
		awardByUser[a.UserID] = a.Total
	}
	for i := range userScores {
		userScores[i].TotalScore += awardByUser[userScores[i].SubjectID]
	}
	// 分高在前，同分先解出者在前
	sort.SliceStable(userScores, func(i, j int) bool {
		if userScores[i].TotalScore != userScores[j].TotalScore {
			return userScores[i].TotalScore > userScores[j].TotalScore
		}
		return userScores[i].LastSolveTime.Before(userScores[j].LastSolveTime)
	})

	// 队伍榜按 (team, challenge) 去重，同题多名队员解出只计一次
	var teamScores []subjectScore
	database.DB.Table("(SELECT team_id, challenge_id, MIN(created_at) AS solved_at FROM astra_solve WHERE team_id IS NOT NULL GROUP BY team_id, challenge_id) d").
		Select("d.team_id AS subject_id, t.team_name AS subject_name, SUM("+effective+") AS total_score, MAX(d.solved_at) AS last_solve_time").
		Joins("JOIN astra_challenge c ON d.challenge_id = c.id").
		Joins("JOIN astra_team t ON d.team_id = t.id").
		Where("t.team_status = ?", models.TeamStatusActive).
		Group("d.team_id, t.team_name").
		Order("total_score desc, last_solve_time asc").
		Scan(&teamScores)

	// 在事务中整表重建缓存，保证一致性
	database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM astra_scoreboard").Error; err != nil {
			return err
		}
		if err := writeScope(tx, models.ScopeUser, userScores); err != nil {
			return err
		}
		return writeScope(tx, models.ScopeTeam, teamScores)
	})

	// 清空排行榜相关 Redis 缓存，下次查询回源拿最新数据
	keys, err := database.RDB.Keys(database.Ctx, "scoreboard:*").Result()
	if err == nil && len(keys) > 0 {
		database.RDB.Del(database.Ctx, keys...)
		log.Printf("Cleared %d scoreboard cache keys from Redis.", len(keys))
	}

	log.Println("Scoreboard cache updated successfully.")
}

func writeScope(tx *gorm.DB, scope models.ScoreboardScope, scores []subjectScore) error {
	for i, sc := range scores {
		lastSolve := sc.LastSolveTime
		entry := models.Scoreboard{
			Scope:         scope,
			SubjectID:     sc.SubjectID,
			SubjectName:   sc.SubjectName,
			Score:         sc.TotalScore,
			LastSolveTime: &lastSolve,
			Rank:          uint(i + 1),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// AddSolveToFeed 将一条新的解题记录写入动态缓存表
func AddSolveToFeed(challenge models.Challenge, user models.User, teamID *uint32, teamName string, score int) {
	feedEntry := models.SolveFeed{
		ChallengeID:   challenge.ID,
		ChallengeName: challenge.ChallengeName,
		UserID:        user.ID,
		Username:      user.Username,
		TeamID:        teamID,
		TeamName:      teamName,
		Score:         score,
		SolvingTime:   time.Now(),
	}

	database.DB.Create(&feedEntry)

	// 清理旧记录，保留最新 5000 条
	var count int64
	database.DB.Model(&models.SolveFeed{}).Count(&count)
	if count > 5000 {
		database.DB.Exec("DELETE FROM astra_solve_feed ORDER BY solving_time asc LIMIT ?", count-5000)
	}
}
