package domain

import "time"

// Template is a named, reusable tag set used to seed new projects. A project
// copies the tags at creation time; deleting a template later never touches
// projects created from it.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Project owns an ordered image collection and a tag vocabulary. Tags is the
// full vocabulary ever used in the project and only grows; CurrentTags is the
// subset selected for the next capture and is always drawn from Tags.
type Project struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Tags         []string        `json:"tags"`
	CurrentTags  []string        `json:"currentTags"`
	ImageCount   int             `json:"imageCount"`
	LastModified time.Time       `json:"lastModified"`
	Images       []CapturedImage `json:"images"`
	// TemplateID records which template seeded the project. Provenance only;
	// it is never resolved after creation.
	TemplateID string `json:"templateId,omitempty"`
}

// CapturedImage is one committed capture. Tags is the selection at capture
// time in selection order, independent of the project's current set from then
// on. SequenceNumber was computed against the image list at commit time and
// is embedded in Filename; it is not a dense index.
type CapturedImage struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	Tags           []string  `json:"tags"`
	Note           string    `json:"note,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	SequenceNumber int       `json:"sequenceNumber"`
	// PayloadRef is the frame store key holding the raw image bytes.
	PayloadRef string `json:"payloadRef"`
}
