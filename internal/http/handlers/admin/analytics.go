package admin

import (
	"strconv"
	"strings"

	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/http/response"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsOverview 经营总览
func (h *Handler) GetAnalyticsOverview(c *gin.Context) {
	input, ok := parseAnalyticsQuery(c)
	if !ok {
		return
	}
	data, err := h.AnalyticsService.GetOverview(c.Request.Context(), input)
	if err != nil {
		shared.RespondServiceError(c, err, "error.analytics_fetch_failed")
		return
	}
	response.Success(c, data)
}

// GetAnalyticsTrends 按日趋势
func (h *Handler) GetAnalyticsTrends(c *gin.Context) {
	input, ok := parseAnalyticsQuery(c)
	if !ok {
		return
	}
	data, err := h.AnalyticsService.GetTrends(c.Request.Context(), input)
	if err != nil {
		shared.RespondServiceError(c, err, "error.analytics_fetch_failed")
		return
	}
	response.Success(c, data)
}

// GetAnalyticsTopProducts 商品销售排行
func (h *Handler) GetAnalyticsTopProducts(c *gin.Context) {
	input, ok := parseAnalyticsQuery(c)
	if !ok {
		return
	}
	data, err := h.AnalyticsService.GetTopProducts(c.Request.Context(), input)
	if err != nil {
		shared.RespondServiceError(c, err, "error.analytics_fetch_failed")
		return
	}
	response.Success(c, data)
}

func parseAnalyticsQuery(c *gin.Context) (service.AnalyticsQueryInput, bool) {
	input := service.AnalyticsQueryInput{
		Range:    strings.TrimSpace(c.DefaultQuery("range", "7d")),
		Timezone: strings.TrimSpace(c.Query("tz")),
	}
	var ok bool
	if input.From, ok = parseTimeQuery(c, "from"); !ok {
		return input, false
	}
	if input.To, ok = parseTimeQuery(c, "to"); !ok {
		return input, false
	}
	if raw := strings.TrimSpace(c.Query("force_refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return input, false
		}
		input.ForceRefresh = parsed
	}
	return input, true
}
