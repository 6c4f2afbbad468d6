/*
Package server exposes a model over HTTP so that other processes can
query its tree and get predictions from it.
*/
package server

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pbanos/bonsai"
	treejson "github.com/pbanos/bonsai/tree/json"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "server")

type predictRequest struct {
	Rows [][]float64 `json:"rows"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

/*
NewRouter takes a fitted model and returns a gin engine serving the
following routes:
  * GET /api/ping answers with a pong message
  * GET /api/tree answers with the tree of the model encoded as JSON
  * POST /api/predict takes a JSON object with the rows of a feature
    matrix under "rows" and answers with their predictions under
    "predictions"
  * GET /metrics exposes the prometheus metrics of the process
*/
func NewRouter(m *bonsai.Model) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/tree", func(c *gin.Context) {
		t := m.Tree()
		if t == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": bonsai.ErrNotFitted.Error()})
			return
		}
		buf := &bytes.Buffer{}
		if err := treejson.WriteJSONTree(buf, t); err != nil {
			log.WithError(err).Error("tree encoding error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	})

	r.POST("/api/predict", func(c *gin.Context) {
		var payload predictRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		predictions, err := m.Predict(payload.Rows)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, bonsai.ErrShapeMismatch):
				status = http.StatusBadRequest
			case errors.Is(err, bonsai.ErrNotFitted):
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		if predictions == nil {
			predictions = [][]float64{}
		}
		c.JSON(http.StatusOK, predictResponse{Predictions: predictions})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

/*
Run takes a context, an address and a fitted model and serves the model
on the address until the context is done, when the server is shut down
gracefully. It returns an error if the server cannot listen on the address
or does not shut down cleanly.
*/
func Run(ctx context.Context, addr string, m *bonsai.Model) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(m),
	}
	errs := make(chan error, 1)
	go func() {
		log.Infof("serving model on %s", addr)
		errs <- srv.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down server")
	}
	log.Info("server shut down")
	return nil
}
