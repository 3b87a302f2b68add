package engine

import (
	"strings"
	"time"

	"github.com/jonesrussell/request-manager/internal/models"
)

// CreateInput carries the authorable request fields. Identity, version and
// status fields are assigned by the engine.
type CreateInput struct {
	URL                      string             `json:"url"`
	RequestType              models.RequestType `json:"requestType"`
	Priority                 models.Priority    `json:"priority"`
	ContentType              string             `json:"contentType,omitempty"`
	Country                  string             `json:"country,omitempty"`
	Zone                     string             `json:"zone,omitempty"`
	Title                    string             `json:"title,omitempty"`
	Tags                     []string           `json:"tags,omitempty"`
	BackcrawlDepthDays       *int               `json:"backcrawlDepthDays,omitempty"`
	BackcrawlStartTime       *time.Time         `json:"backcrawlStartTime,omitempty"`
	BackcrawlEndTime         *time.Time         `json:"backcrawlEndTime,omitempty"`
	CutOffTime               *time.Time         `json:"cutOffTime,omitempty"`
	StartCollectionTime      *time.Time         `json:"startCollectionTime,omitempty"`
	EndCollectionTime        *time.Time         `json:"endCollectionTime,omitempty"`
	IsAlwaysRun              *bool              `json:"isAlwaysRun,omitempty"`
	IsCollectPopularPostOnly *bool              `json:"isCollectPopularPostOnly,omitempty"`
	RecurringFreqHours       *int               `json:"recurringFreqHours,omitempty"`
}

func (in CreateInput) validate() error {
	if strings.TrimSpace(in.URL) == "" {
		return &ValidationError{Field: "url", Reason: "must not be empty"}
	}
	return nil
}

// UpdatePatch carries partial field changes for an update. Nil fields are
// left untouched.
type UpdatePatch struct {
	URL                      *string             `json:"url,omitempty"`
	RequestType              *models.RequestType `json:"requestType,omitempty"`
	Priority                 *models.Priority    `json:"priority,omitempty"`
	ContentType              *string             `json:"contentType,omitempty"`
	Country                  *string             `json:"country,omitempty"`
	Zone                     *string             `json:"zone,omitempty"`
	Title                    *string             `json:"title,omitempty"`
	Tags                     []string            `json:"tags,omitempty"`
	BackcrawlDepthDays       *int                `json:"backcrawlDepthDays,omitempty"`
	BackcrawlStartTime       *time.Time          `json:"backcrawlStartTime,omitempty"`
	BackcrawlEndTime         *time.Time          `json:"backcrawlEndTime,omitempty"`
	CutOffTime               *time.Time          `json:"cutOffTime,omitempty"`
	StartCollectionTime      *time.Time          `json:"startCollectionTime,omitempty"`
	EndCollectionTime        *time.Time          `json:"endCollectionTime,omitempty"`
	IsAlwaysRun              *bool               `json:"isAlwaysRun,omitempty"`
	IsCollectPopularPostOnly *bool               `json:"isCollectPopularPostOnly,omitempty"`
	RecurringFreqHours       *int                `json:"recurringFreqHours,omitempty"`
}

func (p UpdatePatch) validate() error {
	if p.URL != nil && strings.TrimSpace(*p.URL) == "" {
		return &ValidationError{Field: "url", Reason: "must not be empty"}
	}
	return nil
}

func (p UpdatePatch) applyTo(r *models.Request) {
	if p.URL != nil {
		r.URL = *p.URL
	}
	if p.RequestType != nil {
		r.RequestType = *p.RequestType
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.ContentType != nil {
		r.ContentType = *p.ContentType
	}
	if p.Country != nil {
		r.Country = *p.Country
	}
	if p.Zone != nil {
		r.Zone = *p.Zone
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Tags != nil {
		r.Tags = append([]string(nil), p.Tags...)
	}
	if p.BackcrawlDepthDays != nil {
		r.BackcrawlDepthDays = p.BackcrawlDepthDays
	}
	if p.BackcrawlStartTime != nil {
		r.BackcrawlStartTime = p.BackcrawlStartTime
	}
	if p.BackcrawlEndTime != nil {
		r.BackcrawlEndTime = p.BackcrawlEndTime
	}
	if p.CutOffTime != nil {
		r.CutOffTime = p.CutOffTime
	}
	if p.StartCollectionTime != nil {
		r.StartCollectionTime = p.StartCollectionTime
	}
	if p.EndCollectionTime != nil {
		r.EndCollectionTime = p.EndCollectionTime
	}
	if p.IsAlwaysRun != nil {
		r.IsAlwaysRun = p.IsAlwaysRun
	}
	if p.IsCollectPopularPostOnly != nil {
		r.IsCollectPopularPostOnly = p.IsCollectPopularPostOnly
	}
	if p.RecurringFreqHours != nil {
		r.RecurringFreqHours = p.RecurringFreqHours
	}
}

// RevertResult lists the ids actually removed by a revert; requested ids
// that failed eligibility are absent, not errored.
type RevertResult struct {
	RevertedIDs []string `json:"revertedRequestIds"`
}

// UploadResult summarizes one upload-feedback pass.
type UploadResult struct {
	UpdatedIDs    []string `json:"updatedRequestIds"`
	CreatedEvents int      `json:"createdEvents"`
}
