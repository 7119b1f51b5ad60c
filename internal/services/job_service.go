package services

import (
	"context"
	"fmt"
	"log"

	"github.com/justsurfingit/job-extractor/internal/models"
)

type JobService struct {
	Recognizer EntityRecognizer
}

func NewJobService(rec EntityRecognizer) *JobService {
	return &JobService{
		Recognizer: rec,
	}
}

// ExtractJobInfo fills an ExtractedJobInfo from a raw job ad.
// Rules that do not match leave their field nil; only a recognizer failure
// aborts the extraction.
func (s *JobService) ExtractJobInfo(ctx context.Context, jobAdText string) (*models.ExtractedJobInfo, error) {
	spans, err := s.Recognizer.Recognize(ctx, jobAdText)
	if err != nil {
		return nil, fmt.Errorf("recognize entities: %w", err)
	}

	info := &models.ExtractedJobInfo{}
	text := normalizeText(jobAdText)

	info.Title = extractTitle(text)

	info.CompanyName, err = extractCompany(text)
	logRuleError("company_name", err)

	info.Location = extractLocation(spans)
	info.JobType = extractJobType(text)

	info.Responsibilities, err = extractResponsibilities(text)
	logRuleError("responsibilities", err)

	info.QualificationReq, err = extractQualifications(text)
	logRuleError("qualification_req", err)

	info.JobDescription = deriveJobDescription(info.Title)

	return info, nil
}

func logRuleError(field string, err error) {
	if err != nil {
		log.Printf("⚠️ Rule for %s gave up: %v", field, err)
	}
}
