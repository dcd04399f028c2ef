package handlers

import (
	"errors"
	"net/http"

	"github.com/kubayevvv7/Elite-Math-Update/internal/services"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testService  *services.TestService
	videoService *services.VideoService
	grading      *services.GradingService
}

func NewTestHandler(testService *services.TestService, videoService *services.VideoService, grading *services.GradingService) *TestHandler {
	return &TestHandler{testService: testService, videoService: videoService, grading: grading}
}

type CreateTestRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Answers    string `json:"answers" binding:"required"`
	IsHomework bool   `json:"is_homework"`
}

type AttachVideoRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (h *TestHandler) ListTests(c *gin.Context) {
	homework := c.Query("kind") == "homework"
	tests, err := h.testService.List(homework)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, tests)
}

func (h *TestHandler) CreateTest(c *gin.Context) {
	var req CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answers := h.grading.ExtractLetters(req.Answers)
	if len(answers) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: services.ErrNoValidAnswers.Error()})
		return
	}
	if req.IsHomework && len(answers) != services.HomeworkAnswerCount {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "homework requires exactly 30 answers"})
		return
	}

	testID := h.testService.GenerateTestID()
	if req.IsHomework {
		testID = h.testService.GenerateHomeworkID()
	}

	test, err := h.testService.Create(testID, req.Name, answers, req.IsHomework)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, test)
}

func (h *TestHandler) GetTest(c *gin.Context) {
	test, err := h.testService.Get(c.Param("id"))
	if errors.Is(err, services.ErrTestNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) DeleteTest(c *gin.Context) {
	err := h.testService.Delete(c.Param("id"))
	if errors.Is(err, services.ErrTestNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "test deleted"})
}

func (h *TestHandler) AttachVideo(c *gin.Context) {
	testID := c.Param("id")
	if _, err := h.testService.Get(testID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}

	var req AttachVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.videoService.Upsert(testID, req.URL); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "video attached"})
}

func (h *TestHandler) DetachVideo(c *gin.Context) {
	testID := c.Param("id")
	if _, err := h.testService.Get(testID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "test not found"})
		return
	}

	if err := h.videoService.Delete(testID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "video removed"})
}

func (h *TestHandler) ListVideos(c *gin.Context) {
	links, err := h.videoService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, links)
}
