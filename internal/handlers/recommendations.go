package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/paintstore/pkg/errors"
	"github.com/charlesng35/paintstore/pkg/response"
)

// Recommender answers recommendation queries.
type Recommender interface {
	Popular(ctx context.Context, limit int) ([]string, error)
	Similar(ctx context.Context, productID string, k int) ([]string, error)
}

// RecommendationHandler exposes product recommendations.
type RecommendationHandler struct {
	svc          Recommender
	defaultLimit int
	maxLimit     int
}

type popularQuery struct {
	Limit *int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type similarQuery struct {
	K *int `form:"k" validate:"omitempty,min=1,max=100"`
}

// NewRecommendationHandler constructs a handler. defaultLimit applies when the
// limit or k query parameter is omitted and maxLimit caps both.
func NewRecommendationHandler(svc Recommender, defaultLimit, maxLimit int) (*RecommendationHandler, error) {
	if svc == nil {
		return nil, errors.New("recommendation handler: service is required")
	}
	if maxLimit < 1 || maxLimit > 100 {
		maxLimit = 100
	}
	if defaultLimit < 1 || defaultLimit > maxLimit {
		defaultLimit = min(10, maxLimit)
	}
	return &RecommendationHandler{svc: svc, defaultLimit: defaultLimit, maxLimit: maxLimit}, nil
}

// Popular handles GET /popular?limit=N.
func (h *RecommendationHandler) Popular(c *gin.Context) {
	var query popularQuery
	if !bindQuery(c, &query) {
		return
	}

	limit, ok := h.limitOr(c, "limit", query.Limit)
	if !ok {
		return
	}

	products, err := h.svc.Popular(requestContext(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Strings(c, products)
}

// Similar handles GET /similar/:product_id?k=N.
func (h *RecommendationHandler) Similar(c *gin.Context) {
	productID := strings.TrimSpace(c.Param("product_id"))
	if productID == "" {
		response.Error(c, appErrors.NewBadRequest("product id is required"))
		return
	}

	var query similarQuery
	if !bindQuery(c, &query) {
		return
	}

	k, ok := h.limitOr(c, "k", query.K)
	if !ok {
		return
	}

	products, err := h.svc.Similar(requestContext(c), productID, k)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Strings(c, products)
}

func (h *RecommendationHandler) limitOr(c *gin.Context, name string, value *int) (int, bool) {
	if value == nil {
		return h.defaultLimit, true
	}
	if *value > h.maxLimit {
		response.Error(c, appErrors.NewBadRequest(fmt.Sprintf("%s must be at most %d", name, h.maxLimit)))
		return 0, false
	}
	return *value, true
}
