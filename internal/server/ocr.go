package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type extractTextRequest struct {
	ImagePath string `json:"image_path"`
}

type extractTextResponse struct {
	Text string `json:"text"`
}

// extractText runs OCR on a local image and returns text shaped for the
// order parser. OCR trouble is advisory for the caller (the form stays
// editable), so failures come back as 422 rather than 500.
func (s *Server) extractText(c echo.Context) error {
	var req extractTextRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.ImagePath) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_path is required")
	}

	text, err := s.ocr.ExtractText(c.Request().Context(), req.ImagePath)
	if err != nil {
		s.logger.Warn("ocr extraction failed", "path", req.ImagePath, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text extraction failed")
	}
	return c.JSON(http.StatusOK, extractTextResponse{Text: text})
}
