package topic

import (
	"context"

	"github.com/mkrupp/foro/internal/domain"
)

// Filter restricts a topic listing. Zero values match everything.
type Filter struct {
	// Course matches topics whose course contains this text, ignoring case
	Course string
	// Status matches topics in exactly this status
	Status domain.TopicStatus
}

// Repository defines the interface for topic data persistence.
type Repository interface {
	// CreateTopic stores a new topic and returns it with its assigned ID and author name.
	// The author is taken from topic.Author.ID.
	CreateTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error)

	// GetTopic retrieves a topic by ID. Returns false if it does not exist.
	GetTopic(ctx context.Context, id int64) (*domain.Topic, bool, error)

	// ListTopics returns one page of the topics matching filter and the total number of matches.
	ListTopics(ctx context.Context, filter Filter, page domain.PageRequest) ([]domain.Topic, int64, error)

	// ListAllTopics returns all topics ordered by ID.
	ListAllTopics(ctx context.Context) ([]domain.Topic, error)

	// UpdateTopic overwrites message, status and course of an existing topic.
	// Author and creation time are never changed. Returns ErrTopicNotFound if it does not exist.
	UpdateTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error)

	// DeleteTopic removes a topic. Returns ErrTopicNotFound if it does not exist.
	DeleteTopic(ctx context.Context, id int64) error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
