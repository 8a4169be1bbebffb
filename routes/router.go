// file: routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"AstraCTF/controllers"
	"AstraCTF/middlewares"
	"AstraCTF/models"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// --- 用户模块 ---
		usersPublic := api.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}
		usersAuth := api.Group("/users")
		usersAuth.Use(middlewares.JWTAuthMiddleware())
		{
			usersAuth.GET("/me", controllers.GetMe)
			usersAuth.GET("/:id", controllers.GetUserDetail)
			usersAuth.PUT("/:id", controllers.UpdateUser)
			usersAuth.GET("/:id/awards", controllers.GetUserAwards)
		}

		// --- 队伍模块 ---
		teamRoutes := api.Group("/teams")
		teamRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			teamRoutes.POST("", controllers.CreateTeam)
			teamRoutes.POST("/join", controllers.JoinTeam)
			teamRoutes.POST("/leave", controllers.LeaveTeam)
			teamRoutes.DELETE("/:id", controllers.DisbandTeam)
			teamRoutes.DELETE("/:id/members/:user_id", controllers.KickMember)
			teamRoutes.PUT("/:id", controllers.UpdateTeam)
			teamRoutes.GET("/:id/solves", controllers.GetTeamSolves)
		}

		// --- 分类模块 ---
		categoryRoutes := api.Group("/categories")
		{
			categoryRoutes.GET("", controllers.GetCategoryList)
			categoryRoutes.GET("/:id", controllers.GetCategoryDetail)
			categoryRoutes.POST("", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.CreateCategory)
			categoryRoutes.PUT("/:id", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.UpdateCategory)
			categoryRoutes.DELETE("/:id", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.DeleteCategory)
		}

		// --- 题目模块 ---
		challengeRoutes := api.Group("/challenges")
		{
			// 用户接口
			challengeRoutes.GET("", middlewares.JWTAuthMiddleware(), controllers.ListChallenges)
			challengeRoutes.POST("/attempt", middlewares.JWTAuthMiddleware(), controllers.AttemptChallenge)
			challengeRoutes.GET("/:id", middlewares.JWTAuthMiddleware(), controllers.GetChallengeDetail)
			challengeRoutes.GET("/:id/attachments", middlewares.JWTTryAuthMiddleware(), controllers.ListAttachments)
			challengeRoutes.GET("/:id/comments", middlewares.JWTAuthMiddleware(), controllers.GetComments)
			challengeRoutes.POST("/:id/comments", middlewares.JWTAuthMiddleware(), controllers.CreateComment)

			// 管理员接口
			admin := challengeRoutes.Group("", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
			{
				admin.POST("", controllers.CreateChallenge)
				admin.PUT("/:id", controllers.UpdateChallenge)
				admin.DELETE("/:id", controllers.DeleteChallenge)
				admin.PATCH("/:id/scoring", controllers.UpdateChallengeScoring)
				admin.GET("/:id/value", controllers.GetChallengeValue)
				admin.POST("/:id/attachments", controllers.AddAttachment)
			}
		}

		// --- 附件下载统一网关 ---
		attachmentRoutes := api.Group("/attachments")
		{
			attachmentRoutes.GET("/:attachment_id/download", middlewares.JWTAuthMiddleware(), controllers.DownloadAttachment)
			attachmentRoutes.PUT("/:attachment_id/status", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.UpdateAttachmentStatus)
			attachmentRoutes.DELETE("/:attachment_id", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.DeleteAttachment)
		}

		// --- 比赛模块 ---
		contestRoutes := api.Group("/contest")
		{
			contestRoutes.GET("", controllers.GetCurrentContest)
			contestRoutes.GET("/status", controllers.GetContestStatus)
			contestRoutes.PUT("", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.UpsertContest)
		}

		// --- 排行榜与动态 ---
		scoreboardRoutes := api.Group("/scoreboard")
		{
			scoreboardRoutes.GET("", controllers.GetScoreboard)
			scoreboardRoutes.GET("/feed", controllers.GetSolveFeed)
		}

		// --- 公告 ---
		notificationRoutes := api.Group("/notifications")
		{
			notificationRoutes.GET("", controllers.GetNotifications)
			notificationRoutes.POST("", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.CreateNotification)
			notificationRoutes.DELETE("/:id", middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin), controllers.DeleteNotification)
		}

		// --- 题目环境 ---
		instanceRoutes := api.Group("/instances")
		instanceRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			instanceRoutes.POST("", controllers.CreateInstance)
			instanceRoutes.GET("/my", controllers.GetMyInstances)
			instanceRoutes.DELETE("/:id", controllers.DestroyInstance)
			instanceRoutes.POST("/:id/renew", controllers.RenewInstance)
		}

		// --- 站点配置 ---
		siteConfigRoutes := api.Group("/site-config")
		{
			siteConfigRoutes.GET("", controllers.GetPublicSiteConfig)
		}

		// --- 评论删除（本人或管理员） ---
		api.DELETE("/comments/:comment_id", middlewares.JWTAuthMiddleware(), controllers.DeleteComment)

		// --- 管理员模块 ---
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/users", controllers.GetUserList)
			adminRoutes.DELETE("/users/:id", controllers.DeleteUser)
			adminRoutes.PUT("/users/:id/status", controllers.UpdateUserStatus)
			adminRoutes.PUT("/users/:id/role", middlewares.RoleAuthMiddleware(models.RoleRootAdmin), controllers.UpdateUserRole)

			adminRoutes.GET("/teams", controllers.AdminGetTeams)
			adminRoutes.PUT("/teams/:id/status", controllers.AdminUpdateTeamStatus)
			adminRoutes.DELETE("/teams/:id", controllers.AdminDeleteTeam)

			adminRoutes.GET("/challenges", controllers.AdminListChallenges)
			adminRoutes.GET("/challenges/:id", controllers.AdminGetChallengeDetail)

			adminRoutes.GET("/submissions", controllers.GetSubmissionLogs)
			adminRoutes.PUT("/submissions/:id/suspect", controllers.MarkSuspectSubmission)
			adminRoutes.GET("/submissions/compare", controllers.CompareFlagSubmissions)

			adminRoutes.POST("/awards", controllers.CreateAward)
			adminRoutes.DELETE("/awards/:id", controllers.DeleteAward)

			adminRoutes.GET("/instances", controllers.AdminListInstances)
			adminRoutes.POST("/scoreboard/refresh", controllers.RefreshScoreboard)

			adminRoutes.GET("/site-config", controllers.GetAllSiteConfig)
			adminRoutes.PUT("/site-config", controllers.UpsertSiteConfig)
			adminRoutes.DELETE("/site-config/:key", controllers.DeleteSiteConfig)
		}
	}

	return r
}
