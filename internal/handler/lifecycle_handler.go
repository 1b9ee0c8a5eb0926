package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RunLifecycleSweep 手动触发一次发布/归档扫描。
// 与定时器走同一套幂等逻辑，可安全重复调用。
func (a *API) RunLifecycleSweep(c *gin.Context) {
	result := a.lifecycle.RunSweep()
	c.JSON(http.StatusOK, gin.H{
		"published": result.Published,
		"archived":  result.Archived,
	})
}
