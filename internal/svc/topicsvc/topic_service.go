package topicsvc

import (
	"context"

	"github.com/mkrupp/foro/internal/domain"
)

// TopicService defines the operations on forum topics.
// Callers are expected to be authenticated; no operation checks ownership.
type TopicService interface {
	// Create stores a new topic authored by author. The author is never taken from req.
	Create(ctx context.Context, author domain.User, req domain.TopicRequest) (domain.Topic, error)

	// Get returns the topic with the given ID or an error matching domain.ErrTopicNotFound.
	Get(ctx context.Context, id int64) (domain.Topic, error)

	// List returns one page of all topics.
	List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Topic], error)

	// ListAll returns every topic ordered by ID.
	ListAll(ctx context.Context) ([]domain.Topic, error)

	// Update applies the non-empty fields of req to an existing topic.
	Update(ctx context.Context, id int64, req domain.TopicRequest) (domain.Topic, error)

	// UpdateStatus sets only the status of an existing topic.
	UpdateStatus(ctx context.Context, id int64, status domain.TopicStatus) (domain.Topic, error)

	// Delete removes a topic or returns an error matching domain.ErrTopicNotFound.
	Delete(ctx context.Context, id int64) error

	// SearchByCourse returns one page of topics whose course contains course, ignoring case.
	SearchByCourse(ctx context.Context, course string, page domain.PageRequest) (domain.Page[domain.Topic], error)

	// SearchByStatus returns one page of topics in the given status.
	SearchByStatus(
		ctx context.Context,
		status domain.TopicStatus,
		page domain.PageRequest,
	) (domain.Page[domain.Topic], error)
}
