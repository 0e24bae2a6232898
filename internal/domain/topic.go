package domain

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	// ErrTopicNotFound is returned when looking up a non-existent topic.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrInvalidTopicStatus is returned when a status value is not one of the known statuses.
	ErrInvalidTopicStatus = errors.New("invalid topic status")
)

// TopicStatus is the lifecycle state of a topic.
type TopicStatus string

const (
	TopicStatusOpen   TopicStatus = "ABIERTO"
	TopicStatusSolved TopicStatus = "SOLUCIONADO"
	TopicStatusClosed TopicStatus = "CERRADO"
)

// ParseTopicStatus converts s into a TopicStatus.
func ParseTopicStatus(s string) (TopicStatus, error) {
	switch status := TopicStatus(s); status {
	case TopicStatusOpen, TopicStatusSolved, TopicStatusClosed:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTopicStatus, s)
	}
}

// Author is the owning identity of a topic as seen by readers.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"nombreUsuario"`
}

// Topic is a forum question posted by an author about a course.
// Author is bound at creation and never changes.
type Topic struct {
	ID        int64
	Message   string
	CreatedAt time.Time
	Status    TopicStatus
	Author    Author
	Course    string
}

// TopicRequest is the client-supplied part of a topic. It deliberately has no author field.
type TopicRequest struct {
	Message string      `json:"mensaje"`
	Status  TopicStatus `json:"statusActual"`
	Course  string      `json:"curso"`
}

// WithDefaults returns a copy of r with an empty status set to TopicStatusOpen.
func (r TopicRequest) WithDefaults() TopicRequest {
	if r.Status == "" {
		r.Status = TopicStatusOpen
	}

	return r
}

// Validate checks message and course bounds and the status value.
func (r TopicRequest) Validate() error {
	return validationError(validation.ValidateStruct(&r,
		validation.Field(&r.Message, validation.Required, validation.Length(10, 1000)),
		validation.Field(&r.Status,
			validation.Required,
			validation.In(TopicStatusOpen, TopicStatusSolved, TopicStatusClosed),
		),
		validation.Field(&r.Course, validation.Required, validation.Length(2, 100)),
	))
}

// TopicResponse is the public representation of a topic.
type TopicResponse struct {
	ID        int64       `json:"id"`
	Message   string      `json:"mensaje"`
	CreatedAt time.Time   `json:"fechaCreacion"`
	Status    TopicStatus `json:"statusActual"`
	Author    Author      `json:"autor"`
	Course    string      `json:"curso"`
}

// NewTopicResponse converts a Topic into its public representation.
func NewTopicResponse(topic Topic) TopicResponse {
	return TopicResponse{
		ID:        topic.ID,
		Message:   topic.Message,
		CreatedAt: topic.CreatedAt,
		Status:    topic.Status,
		Author:    topic.Author,
		Course:    topic.Course,
	}
}

// ValidateCourseSearch checks the course text of a course search.
func ValidateCourseSearch(course string) error {
	return validationError(validation.Errors{
		"curso": validation.Validate(course, validation.Required, validation.Length(1, 100)),
	}.Filter())
}

// MergeInto returns topic with every non-empty field of r applied.
// ID, author and creation time are kept.
func (r TopicRequest) MergeInto(topic Topic) Topic {
	if r.Message != "" {
		topic.Message = r.Message
	}

	if r.Status != "" {
		topic.Status = r.Status
	}

	if r.Course != "" {
		topic.Course = r.Course
	}

	return topic
}

// Request returns the client-controlled fields of topic.
func (topic Topic) Request() TopicRequest {
	return TopicRequest{
		Message: topic.Message,
		Status:  topic.Status,
		Course:  topic.Course,
	}
}
