// Package metrics Prometheus 指标，通过 /metrics 暴露
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// StorageOperations 对象存储调用次数
	StorageOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docvault",
		Name:      "storage_operations_total",
		Help:      "Object storage calls by operation and result.",
	}, []string{"op", "result"})

	// AuditEntries 审计记录写入次数
	AuditEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docvault",
		Name:      "audit_entries_total",
		Help:      "Audit entries recorded by action.",
	}, []string{"action"})

	// HTTPRequests HTTP 请求次数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "docvault",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration HTTP 请求耗时
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "docvault",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Result 把 error 转成指标标签
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Middleware 记录请求次数与耗时，未匹配的路由统一记为 unmatched
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 处理函数
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
