package topicsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/infra/logging"
	"github.com/mkrupp/foro/internal/repo/topic"
)

// RepoTopicService implements TopicService on a topic repository.
type RepoTopicService struct {
	repo topic.Repository
	log  logging.Logger
}

var _ TopicService = (*RepoTopicService)(nil)

// NewRepoTopicService creates a new RepoTopicService.
// Returns an error if the topic repository cannot be created.
func NewRepoTopicService(repoFactory topic.RepositoryFactory) (*RepoTopicService, error) {
	repo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new topic repo: %w", err)
	}

	return &RepoTopicService{
		repo: repo,
		log:  logging.GetLogger("svc.topicsvc.repo_topic_service"),
	}, nil
}

// Create implements TopicService.Create.
func (s *RepoTopicService) Create(
	ctx context.Context,
	author domain.User,
	req domain.TopicRequest,
) (_ domain.Topic, err error) {
	log := s.log.With(logging.Group("author", "id", author.ID))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "create topic failed", "error", err)
		} else {
			log.DebugContext(ctx, "topic created")
		}
	}()

	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return domain.Topic{}, err
	}

	//nolint:exhaustruct
	created, err := s.repo.CreateTopic(ctx, domain.Topic{
		Message: req.Message,
		Status:  req.Status,
		Author:  domain.Author{ID: author.ID, Username: author.Username},
		Course:  req.Course,
	})
	if err != nil {
		return domain.Topic{}, fmt.Errorf("create topic: %w", err)
	}

	log = log.With(logging.Group("topic", "id", created.ID))

	return created, nil
}

// Get implements TopicService.Get.
func (s *RepoTopicService) Get(ctx context.Context, id int64) (domain.Topic, error) {
	found, ok, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("get topic: %w", err)
	} else if !ok {
		return domain.Topic{}, fmt.Errorf("topic %d: %w", id, domain.ErrTopicNotFound)
	}

	return *found, nil
}

// List implements TopicService.List.
func (s *RepoTopicService) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Topic], error) {
	//nolint:exhaustruct
	return s.list(ctx, topic.Filter{}, page)
}

// ListAll implements TopicService.ListAll.
func (s *RepoTopicService) ListAll(ctx context.Context) ([]domain.Topic, error) {
	topics, err := s.repo.ListAllTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all topics: %w", err)
	}

	return topics, nil
}

// Update implements TopicService.Update. The merged topic must pass the same
// validation as a new one.
func (s *RepoTopicService) Update(
	ctx context.Context,
	id int64,
	req domain.TopicRequest,
) (_ domain.Topic, err error) {
	log := s.log.With(logging.Group("topic", "id", id))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "update topic failed", "error", err)
		} else {
			log.DebugContext(ctx, "topic updated")
		}
	}()

	if req.Status != "" {
		if _, err := domain.ParseTopicStatus(string(req.Status)); err != nil {
			return domain.Topic{}, err
		}
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return domain.Topic{}, err
	}

	merged := req.MergeInto(existing)
	if err := merged.Request().Validate(); err != nil {
		return domain.Topic{}, err
	}

	updated, err := s.repo.UpdateTopic(ctx, merged)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("update topic: %w", err)
	}

	return updated, nil
}

// UpdateStatus implements TopicService.UpdateStatus.
func (s *RepoTopicService) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.TopicStatus,
) (_ domain.Topic, err error) {
	log := s.log.With(logging.Group("topic", "id", id, "status", status))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "update topic status failed", "error", err)
		} else {
			log.DebugContext(ctx, "topic status updated")
		}
	}()

	if _, err := domain.ParseTopicStatus(string(status)); err != nil {
		return domain.Topic{}, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return domain.Topic{}, err
	}

	existing.Status = status

	updated, err := s.repo.UpdateTopic(ctx, existing)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("update topic: %w", err)
	}

	return updated, nil
}

// Delete implements TopicService.Delete.
func (s *RepoTopicService) Delete(ctx context.Context, id int64) (err error) {
	log := s.log.With(logging.Group("topic", "id", id))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "delete topic failed", "error", err)
		} else {
			log.DebugContext(ctx, "topic deleted")
		}
	}()

	if err := s.repo.DeleteTopic(ctx, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}

	return nil
}

// SearchByCourse implements TopicService.SearchByCourse.
// An empty course is a validation error rather than a match-all.
func (s *RepoTopicService) SearchByCourse(
	ctx context.Context,
	course string,
	page domain.PageRequest,
) (domain.Page[domain.Topic], error) {
	if err := domain.ValidateCourseSearch(course); err != nil {
		return domain.Page[domain.Topic]{}, err
	}

	//nolint:exhaustruct
	return s.list(ctx, topic.Filter{Course: course}, page)
}

// SearchByStatus implements TopicService.SearchByStatus.
func (s *RepoTopicService) SearchByStatus(
	ctx context.Context,
	status domain.TopicStatus,
	page domain.PageRequest,
) (domain.Page[domain.Topic], error) {
	if _, err := domain.ParseTopicStatus(string(status)); err != nil {
		return domain.Page[domain.Topic]{}, err
	}

	//nolint:exhaustruct
	return s.list(ctx, topic.Filter{Status: status}, page)
}

func (s *RepoTopicService) list(
	ctx context.Context,
	filter topic.Filter,
	page domain.PageRequest,
) (domain.Page[domain.Topic], error) {
	topics, total, err := s.repo.ListTopics(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.Topic]{}, fmt.Errorf("list topics: %w", err)
	}

	return domain.NewPage(topics, page, total), nil
}
