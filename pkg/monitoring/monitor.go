package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	LedgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_ledger_entries_total",
			Help: "Reward issuer calls by reason and whether a new entry was applied",
		},
		[]string{"reason", "applied"},
	)

	LotteryDraws = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_lottery_draws_total",
			Help: "Lottery draw outcomes",
		},
		[]string{"outcome"},
	)

	StockConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_stock_conflicts_total",
			Help: "Draw attempts that lost the race for the last unit of a prize",
		},
	)

	FirstClears = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_first_clears_total",
			Help: "Quest first clears paid out",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(LedgerEntries)
		prometheus.MustRegister(LotteryDraws)
		prometheus.MustRegister(StockConflicts)
		prometheus.MustRegister(FirstClears)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
