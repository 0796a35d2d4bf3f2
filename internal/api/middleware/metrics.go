package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type RequestObserver interface {
	ObserveRequest(route, method, code string, seconds float64)
}

// Metrics records every request under its route template, not its raw path.
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(route, ctx.Request.Method, strconv.Itoa(ctx.Writer.Status()), time.Since(start).Seconds())
	}
}
