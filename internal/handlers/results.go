package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kubayevvv7/Elite-Math-Update/internal/pdf"
	"github.com/kubayevvv7/Elite-Math-Update/internal/services"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	testService   *services.TestService
	resultService *services.ResultService
	mediaDir      string
}

func NewResultHandler(testService *services.TestService, resultService *services.ResultService, mediaDir string) *ResultHandler {
	return &ResultHandler{testService: testService, resultService: resultService, mediaDir: mediaDir}
}

func (h *ResultHandler) ListByTest(c *gin.Context) {
	testID := c.Param("id")
	if _, err := h.testService.Get(testID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}

	results, err := h.resultService.ListByTest(testID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *ResultHandler) StatsByTest(c *gin.Context) {
	testID := c.Param("id")
	if _, err := h.testService.Get(testID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}

	results, err := h.resultService.ListByTest(testID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.resultService.AggregateByStudent(results))
}

func (h *ResultHandler) Today(c *gin.Context) {
	results, err := h.resultService.Today()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// DownloadPDF streams the ranked per-student report for one test.
func (h *ResultHandler) DownloadPDF(c *gin.Context) {
	testID := c.Param("id")
	test, err := h.testService.Get(testID)
	if errors.Is(err, services.ErrTestNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	results, err := h.resultService.ListByTest(testID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if len(results) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no results for this test"})
		return
	}

	stats := h.resultService.AggregateByStudent(results)
	rows := make([]pdf.ResultRow, 0, len(stats))
	for i, st := range stats {
		rows = append(rows, pdf.ResultRow{
			Rank:        i + 1,
			StudentName: st.StudentName,
			Correct:     st.Correct,
			Incorrect:   st.Incorrect,
			Percentage:  st.Percentage(),
		})
	}

	dest := filepath.Join(h.mediaDir, fmt.Sprintf("results_%s_%d.pdf", testID, time.Now().UnixNano()))
	if err := pdf.TestResultsReport(dest, test.Name, rows); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	defer os.Remove(dest)

	c.FileAttachment(dest, fmt.Sprintf("results_%s.pdf", testID))
}
