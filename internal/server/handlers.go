package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/recommend"
)

type categorizeRequest struct {
	MerchantName string `json:"merchantName"`
	UserID       string `json:"userId"`
}

type categorizeResponse struct {
	Category        string  `json:"category"`
	MatchedAlias    string  `json:"matchedAlias,omitempty"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// handleCategorize resolves a merchant name to a category. Missing fields
// are the only client-visible error; everything downstream degrades inside
// the engine.
func (s *Server) handleCategorize(c echo.Context) error {
	var req categorizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.MerchantName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "merchantName is required")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	result, err := s.categorizer.Categorize(c.Request().Context(), req.MerchantName, req.UserID)
	if err != nil {
		s.logger.Error("categorization failed",
			"merchant", req.MerchantName,
			"user", req.UserID,
			"error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "categorization failed")
	}

	return c.JSON(http.StatusOK, categorizeResponse{
		Category:        result.Category.Name,
		MatchedAlias:    result.MatchedAlias,
		ConfidenceScore: result.Confidence,
	})
}

type recommendRequest struct {
	UserID              string `json:"userId"`
	CategoryToOverwrite string `json:"categoryToOverwrite"`
}

type recommendResponse struct {
	RecommendedCategory string  `json:"recommendedCategory"`
	SimilarUser         string  `json:"similarUser,omitempty"`
	ConfidenceScore     float64 `json:"confidenceScore"`
	SimilarityScore     float64 `json:"similarityScore"`
}

// handleRecommend returns the engine's ranked suggestion, or the static
// fallback when the engine has no signal.
func (s *Server) handleRecommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	if req.CategoryToOverwrite == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "categoryToOverwrite is required")
	}

	rec, err := s.recommender.Recommend(c.Request().Context(), req.UserID, req.CategoryToOverwrite)
	if err != nil {
		s.logger.Error("recommendation failed",
			"user", req.UserID,
			"category", req.CategoryToOverwrite,
			"error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "recommendation failed")
	}

	if rec == nil {
		rec = recommend.Fallback(req.CategoryToOverwrite)
	}

	return c.JSON(http.StatusOK, recommendResponse{
		RecommendedCategory: rec.RecommendedCategory,
		SimilarUser:         rec.SimilarUserID,
		ConfidenceScore:     rec.Confidence,
		SimilarityScore:     rec.Similarity,
	})
}

type merchantConfidenceResponse struct {
	MerchantName    string  `json:"merchantName"`
	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// handleMerchantConfidence reports the stored alias confidence for a
// merchant name.
func (s *Server) handleMerchantConfidence(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "merchant name is required")
	}

	alias, err := s.storage.LookupAlias(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "merchant not found")
		}
		s.logger.Error("alias lookup failed", "merchant", name, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	return c.JSON(http.StatusOK, merchantConfidenceResponse{
		MerchantName:    alias.MerchantName,
		Category:        alias.CategoryName,
		ConfidenceScore: alias.Confidence,
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
