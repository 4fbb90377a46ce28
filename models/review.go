// Package models defines data structures for the review scraper.
package models

import "time"

// ReviewRecord is one patient review extracted from a doctor profile page.
// Comment is the only mandatory field; a record without it is never emitted.
// Optional fields serialize as null when absent.
type ReviewRecord struct {
	ID          int     `json:"id"`
	Author      *string `json:"author"`
	Comment     string  `json:"comment"`
	Rating      *int    `json:"rating"`
	Date        *string `json:"date"`
	DoctorReply *string `json:"doctor_reply"`
}

// ScrapeResult is the outcome of one full-profile scrape.
type ScrapeResult struct {
	URL                 string         `json:"url"`
	DoctorName          *string        `json:"doctor_name"`
	ExtractionTimestamp string         `json:"extraction_timestamp"`
	Reviews             []ReviewRecord `json:"reviews"`
	TotalReviews        int            `json:"total_reviews"`
}

// NewScrapeResult assembles a result, stamping the extraction time and
// recomputing TotalReviews from the review slice.
func NewScrapeResult(url string, doctorName *string, reviews []ReviewRecord) *ScrapeResult {
	if reviews == nil {
		reviews = []ReviewRecord{}
	}
	return &ScrapeResult{
		URL:                 url,
		DoctorName:          doctorName,
		ExtractionTimestamp: time.Now().Format(time.RFC3339),
		Reviews:             reviews,
		TotalReviews:        len(reviews),
	}
}

// AcquisitionResult is what one pass of the review acquisition loop yields:
// how many load-more clicks were performed and the most recent backup
// snapshot taken mid-loop. The backup is the recovery payload used when the
// final extraction comes back empty after a late redirect.
type AcquisitionResult struct {
	Clicks int
	Backup []ReviewRecord
}
