package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	appErrors "github.com/charlesng35/paintstore/pkg/errors"
	"github.com/charlesng35/paintstore/pkg/response"
)

type stubRecommender struct {
	popular []string
	similar []string
	err     error

	gotLimit   int
	gotProduct string
	gotK       int
}

func (s *stubRecommender) Popular(_ context.Context, limit int) ([]string, error) {
	s.gotLimit = limit
	return s.popular, s.err
}

func (s *stubRecommender) Similar(_ context.Context, productID string, k int) ([]string, error) {
	s.gotProduct = productID
	s.gotK = k
	return s.similar, s.err
}

func newRecommendationRouter(t *testing.T, svc Recommender, maxLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, err := NewRecommendationHandler(svc, 10, maxLimit)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/popular", handler.Popular)
	r.GET("/similar/:product_id", handler.Similar)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPopularDefaultsLimit(t *testing.T) {
	svc := &stubRecommender{popular: []string{"white", "primer"}}
	r := newRecommendationRouter(t, svc, 100)

	w := serve(r, "/popular")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `["white","primer"]`, w.Body.String())
	require.Equal(t, 10, svc.gotLimit)
}

func TestPopularExplicitLimit(t *testing.T) {
	svc := &stubRecommender{}
	r := newRecommendationRouter(t, svc, 100)

	w := serve(r, "/popular?limit=3")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", w.Body.String())
	require.Equal(t, 3, svc.gotLimit)
}

func TestPopularRejectsInvalidLimit(t *testing.T) {
	cases := map[string]string{
		"/popular?limit=0":   "limit must be at least 1",
		"/popular?limit=101": "limit must be at most 100",
		"/popular?limit=abc": "query parameters must be integers",
	}

	for target, detail := range cases {
		svc := &stubRecommender{}
		r := newRecommendationRouter(t, svc, 100)

		w := serve(r, target)
		require.Equal(t, http.StatusBadRequest, w.Code, target)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "BAD_REQUEST", body.Code)
		require.Equal(t, detail, body.Detail, target)
		require.Zero(t, svc.gotLimit, target)
	}
}

func TestPopularHonoursConfiguredMaximum(t *testing.T) {
	svc := &stubRecommender{}
	r := newRecommendationRouter(t, svc, 25)

	w := serve(r, "/popular?limit=30")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "limit must be at most 25")
}

func TestSimilar(t *testing.T) {
	svc := &stubRecommender{similar: []string{"tape"}}
	r := newRecommendationRouter(t, svc, 100)

	w := serve(r, "/similar/primer?k=5")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `["tape"]`, w.Body.String())
	require.Equal(t, "primer", svc.gotProduct)
	require.Equal(t, 5, svc.gotK)

	w = serve(r, "/similar/primer?k=500")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendationSourceFailure(t *testing.T) {
	svc := &stubRecommender{err: appErrors.ErrSourceUnavailable.WithInternal(errors.New("permission denied"))}
	r := newRecommendationRouter(t, svc, 100)

	for _, target := range []string{"/popular", "/similar/white"} {
		w := serve(r, target)
		require.Equal(t, http.StatusInternalServerError, w.Code, target)

		var body response.ErrorBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "SOURCE_UNAVAILABLE", body.Code)
		require.Contains(t, body.Detail, "permission denied")
	}
}

func TestNewRecommendationHandlerRequiresService(t *testing.T) {
	_, err := NewRecommendationHandler(nil, 10, 100)
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health())

	w := serve(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
