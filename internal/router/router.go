package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/newsdesk/internal/handler"
)

// Options 汇总路由装配所需的外部配置。
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURLPath string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(opts.SessionSecret))
	r.Use(sessions.Sessions("newsdesk_session", store))

	// 上传目录静态服务
	r.Static(opts.UploadURLPath, opts.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.POST("/api/login", api.Login)
	r.POST("/api/logout", api.Logout)

	// 公开读取接口
	r.GET("/api/articles", api.ListArticles)
	r.GET("/api/articles/:id", api.GetArticle)
	r.GET("/api/articles/:id/html", api.GetArticleHTML)
	r.GET("/api/categories", api.ListCategories)

	// 投稿接口：登录即可
	authed := r.Group("/api", handler.AuthRequired())
	{
		authed.POST("/changes", api.SubmitCreateChange)
		authed.POST("/articles/:id/changes", api.SubmitUpdateChange)
		authed.POST("/uploads", api.UploadMedia)
	}

	// 审核接口：仅审核员
	review := r.Group("/api", handler.ReviewerRequired())
	{
		review.GET("/changes", api.ListChanges)
		review.GET("/changes/:id", api.GetChange)
		review.POST("/changes/:id/approve", api.ApproveChange)
		review.POST("/changes/:id/reject", api.RejectChange)
		review.POST("/categories", api.CreateCategory)
		review.POST("/lifecycle/sweep", api.RunLifecycleSweep)
	}

	return r
}
