package dtos

// JobExtractionRequest is the body of POST /jobs/extract.
// A missing job_ad_text is treated as empty text.
type JobExtractionRequest struct {
	JobAdText string `json:"job_ad_text"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
