package router

import (
	"github.com/blues/cfl/internal/cache"
	"github.com/blues/cfl/internal/config"
	"github.com/blues/cfl/internal/handler"
	"github.com/blues/cfl/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, snapshotCache *cache.Cache, cfg *config.Config) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "crowdfund-ledger",
		})
	})

	capabilityRequired := capabilityMiddleware(db)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 活动相关路由
		campaignHandler := handler.NewCampaignHandler(db, snapshotCache)
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", capabilityRequired, campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.GET("/:id/active", campaignHandler.GetActive)
			campaigns.GET("/:id/raised", campaignHandler.GetRaisedAmount)
			campaigns.GET("/:id/goal", campaignHandler.GetGoalAmount)
			campaigns.GET("/:id/end-time", campaignHandler.GetEndTime)
			campaigns.GET("/:id/creator", campaignHandler.GetCreator)
			campaigns.GET("/:id/balance", campaignHandler.GetBalance)
			campaigns.POST("/:id/contributions", campaignHandler.Contribute)
			campaigns.POST("/:id/withdraw", campaignHandler.Withdraw)
			campaigns.POST("/:id/refund", campaignHandler.RefundTrigger)
			campaigns.POST("/:id/refunds/claim", campaignHandler.ClaimRefund)
			campaigns.POST("/:id/cancel", capabilityRequired, campaignHandler.EmergencyCancel)
		}

		// 出资凭证路由
		receiptHandler := handler.NewReceiptHandler(db)
		campaigns.GET("/:id/contributions", receiptHandler.GetCampaignReceipts)
		v1.GET("/contributors/:address/receipts", receiptHandler.GetContributorReceipts)

		// 能力凭证路由
		capabilityHandler := handler.NewCapabilityHandler(db)
		v1.POST("/capability/transfer", capabilityHandler.Transfer)
	}

	return r
}

// capabilityMiddleware 能力凭证校验：持有Token即授权，不查角色
func capabilityMiddleware(db *gorm.DB) gin.HandlerFunc {
	capabilityLogic := logic.NewCapabilityLogic(db)

	return func(c *gin.Context) {
		if _, err := capabilityLogic.Verify(c.GetHeader(handler.CapabilityHeader)); err != nil {
			handler.RejectResponse(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Caller-Address, X-Capability-Token")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
