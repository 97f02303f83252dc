package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sentiscope/sentiment-api/internal/core/ports"
)

// HeaderIdempotencyKey lets a client retry /analyze without a second record.
const HeaderIdempotencyKey = "Idempotency-Key"

// AnalysisHandler handles sentiment analysis and history requests.
type AnalysisHandler struct {
	service ports.AnalysisService
}

func NewAnalysisHandler(service ports.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze handles POST /analyze.
//
// @Summary      Analyze the sentiment of a text
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays the first result for a repeated key"
// @Param        body             body      analyzeRequest  true   "Text to analyze"
// @Success      200              {object}  analyzeResponse
// @Failure      400              {object}  messageResponse
// @Failure      401              {object}  messageResponse
// @Failure      403              {object}  messageResponse
// @Failure      404              {object}  messageResponse
// @Failure      500              {object}  messageResponse
// @Router       /analyze [post]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Analyze(c.Request().Context(), ports.AnalyzeInput{
		AccountID:      accountID,
		Text:           req.Text,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Sentiment:  string(result.Sentiment),
		Confidence: result.Confidence,
	})
}

// History handles GET /history.
//
// @Summary      List the caller's analyses, oldest first
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   historyItemResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Failure      500  {object}  messageResponse
// @Router       /history [get]
func (h *AnalysisHandler) History(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	records, err := h.service.GetHistory(c.Request().Context(), accountID)
	if err != nil {
		return err
	}

	items := make([]historyItemResponse, len(records))
	for i, r := range records {
		items[i] = historyItemResponse{
			Text:       r.Text,
			Sentiment:  string(r.Sentiment),
			Confidence: r.Confidence,
		}
	}
	return c.JSON(http.StatusOK, items)
}
