package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/thirteenf/internal/model"
	"github.com/rickgao/thirteenf/internal/report"
	"github.com/rickgao/thirteenf/internal/version"
)

type healthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.HealthTimeout)
	defer cancel()

	resp := healthResponse{Status: "healthy", Version: version.Version}
	if len(s.checks) > 0 {
		resp.Components = make(map[string]string, len(s.checks))
	}

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Components[name] = err.Error()
			continue
		}
		resp.Components[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (s *Server) compare(c *gin.Context) {
	cik := c.Param("cik")

	refresh := false
	if v := c.Query("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "refresh must be a boolean")
			return
		}
		refresh = b
	}

	var (
		result *model.Comparison
		err    error
	)
	if refresh {
		result, err = s.comparer.Refresh(c.Request.Context(), cik)
	} else {
		result, err = s.comparer.Compare(c.Request.Context(), cik)
	}
	if err != nil {
		s.fail(c, cik, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, result)
	case "markdown", "md":
		body := report.Markdown(result, report.Options{MaxRows: s.cfg.MaxRows})
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(body))
	default:
		writeError(c, http.StatusBadRequest, "format must be json or markdown")
	}
}

type filingsResponse struct {
	FundID   string                 `json:"cik"`
	FundName string                 `json:"fund_name,omitempty"`
	Current  model.DocumentLocation `json:"current"`
	Prior    model.DocumentLocation `json:"prior"`
	Meta     model.FilingMeta       `json:"metadata"`
}

func (s *Server) filings(c *gin.Context) {
	cik := c.Param("cik")

	located, err := s.comparer.Locate(c.Request.Context(), cik)
	if err != nil {
		s.fail(c, cik, err)
		return
	}

	c.JSON(http.StatusOK, filingsResponse{
		FundID:   located.FundID,
		FundName: located.FundName,
		Current:  located.Current,
		Prior:    located.Prior,
		Meta:     located.Meta,
	})
}

func (s *Server) fail(c *gin.Context, cik string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "cik", cik, "status", status, "err", err, "request_id", c.GetString(ctxRequestID))
	} else {
		s.logger.Info("request rejected", "cik", cik, "status", status, "err", err, "request_id", c.GetString(ctxRequestID))
	}
	writeError(c, status, err.Error())
}

// statusFor maps a failure kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidFundID):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrInsufficientFilings):
		return http.StatusNotFound
	case errors.Is(err, model.ErrMalformedDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrRetrieval):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      msg,
		"request_id": c.GetString(ctxRequestID),
	})
}
