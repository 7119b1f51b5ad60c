package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-extractor/internal/dtos"
	"github.com/justsurfingit/job-extractor/internal/models"
	"github.com/justsurfingit/job-extractor/internal/services"
)

var errNotAnObject = errors.New("request body must be a JSON object")

// JobHandler serves the extraction endpoint. The service, and the recognizer
// behind it, are built once at startup and shared by every request.
type JobHandler struct {
	JobService *services.JobService
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobService) *JobHandler {
	return &JobHandler{
		JobService: j,
	}
}

// ParseJob is the POST /jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	req, err := bindExtractionRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "Invalid JSON format: " + err.Error()})
		return
	}

	info, err := h.JobService.ExtractJobInfo(c.Request.Context(), req.JobAdText)
	if err != nil {
		log.Printf("[%s] ❌ Extraction failed: %v", RequestID(c), err)
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: "Extraction failed: " + err.Error()})
		return
	}

	logExtracted(RequestID(c), info)
	c.JSON(http.StatusOK, info)
}

// bindExtractionRequest decodes the body into a pointer so a bare JSON null
// is told apart from an object with no job_ad_text. gin's validator cannot
// walk a nil pointer, so the body is decoded here instead of ShouldBindJSON.
func bindExtractionRequest(c *gin.Context) (*dtos.JobExtractionRequest, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	var req *dtos.JobExtractionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errNotAnObject
	}
	return req, nil
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.HealthResponse{Status: "ok"})
}

func logExtracted(requestID string, info *models.ExtractedJobInfo) {
	log.Printf("[%s] 🧾 Extracted Information:", requestID)
	for _, f := range info.Fields() {
		if f.Value == nil {
			log.Printf("[%s]   %s: <none>", requestID, f.Key)
			continue
		}
		log.Printf("[%s]   %s: %q", requestID, f.Key, *f.Value)
	}
}
