package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/tree"
	treejson "github.com/pbanos/bonsai/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fittedModel(t *testing.T) *bonsai.Model {
	m, err := bonsai.New(tree.Classification, bonsai.ID3)
	require.NoError(t, err)
	X := [][]float64{{0, 5}, {0, 6}, {1, 5}, {1, 6}}
	Y := [][]float64{{0}, {0}, {1}, {1}}
	require.NoError(t, m.Fit(X, Y))
	return m
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	w := serve(NewRouter(fittedModel(t)), "GET", "/api/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestTree(t *testing.T) {
	m := fittedModel(t)
	w := serve(NewRouter(m), "GET", "/api/tree", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	decoded, err := treejson.ReadJSONTree(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, m.Tree().String(), decoded.String())
}

func TestTreeNotFitted(t *testing.T) {
	m, err := bonsai.New(tree.Regression, bonsai.CART)
	require.NoError(t, err)
	w := serve(NewRouter(m), "GET", "/api/tree", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredict(t *testing.T) {
	router := NewRouter(fittedModel(t))
	w := serve(router, "POST", "/api/predict", `{"rows":[[0,9],[1,-3]]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var response predictResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, [][]float64{{0}, {1}}, response.Predictions)

	w = serve(router, "POST", "/api/predict", `{"rows":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"predictions":[]}`, w.Body.String())
}

func TestPredictErrors(t *testing.T) {
	router := NewRouter(fittedModel(t))
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"rows":`, http.StatusBadRequest},
		{"wrong width", `{"rows":[[1]]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, "POST", "/api/predict", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}

	m, err := bonsai.New(tree.Classification, bonsai.CART)
	require.NoError(t, err)
	w := serve(NewRouter(m), "POST", "/api/predict", `{"rows":[[1]]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetrics(t *testing.T) {
	router := NewRouter(fittedModel(t))
	serve(router, "POST", "/api/predict", `{"rows":[[0,0]]}`)
	w := serve(router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bonsai_predictions_total")
	assert.Contains(t, w.Body.String(), "bonsai_fit_duration_seconds")
}
