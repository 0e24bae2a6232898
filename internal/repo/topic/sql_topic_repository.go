package topic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/infra/logging"
)

// ErrUnknownSortField is returned when a page request sorts by a field that is not sortable.
var ErrUnknownSortField = errors.New("unknown sort field")

const selectTopics = `
	SELECT t.id, t.message, t.created_at, t.status, t.author_id, u.username AS author_username, t.course
	FROM topics t
	JOIN users u ON u.id = t.author_id`

// sortColumns maps the public sort field names onto columns.
//
//nolint:gochecknoglobals
var sortColumns = map[string]string{
	"id":            "t.id",
	"fechaCreacion": "t.created_at",
	"curso":         "t.course",
	"statusActual":  "t.status",
}

type topicRow struct {
	ID             int64  `db:"id"`
	Message        string `db:"message"`
	CreatedAt      int64  `db:"created_at"`
	Status         string `db:"status"`
	AuthorID       int64  `db:"author_id"`
	AuthorUsername string `db:"author_username"`
	Course         string `db:"course"`
}

func (r topicRow) toDomain() domain.Topic {
	return domain.Topic{
		ID:        r.ID,
		Message:   r.Message,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
		Status:    domain.TopicStatus(r.Status),
		Author: domain.Author{
			ID:       r.AuthorID,
			Username: r.AuthorUsername,
		},
		Course: r.Course,
	}
}

// SQLTopicRepository implements Repository on a shared sqlx pool.
type SQLTopicRepository struct {
	db  *sqlx.DB
	log logging.Logger
	now func() time.Time
}

var _ Repository = (*SQLTopicRepository)(nil)

// SQLTopicRepositoryFactory creates a factory function that returns a new SQLTopicRepository.
func SQLTopicRepositoryFactory(db *sqlx.DB) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLTopicRepository(db), nil
	}
}

// NewSQLTopicRepository creates a new SQLTopicRepository on the given pool.
func NewSQLTopicRepository(db *sqlx.DB) *SQLTopicRepository {
	return &SQLTopicRepository{
		db:  db,
		log: logging.GetLogger("repo.topic.sql_topic_repository"),
		now: time.Now,
	}
}

// CreateTopic implements Repository.CreateTopic.
func (r *SQLTopicRepository) CreateTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	createdAt := r.now().UTC().Truncate(time.Millisecond)

	var id int64

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(
		"INSERT INTO topics (message, created_at, status, author_id, course) VALUES (?, ?, ?, ?, ?) RETURNING id",
	),
		topic.Message,
		createdAt.UnixMilli(),
		string(topic.Status),
		topic.Author.ID,
		topic.Course,
	).Scan(&id)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("insert topic: %w", err)
	}

	created, ok, err := r.GetTopic(ctx, id)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("reload topic: %w", err)
	} else if !ok {
		return domain.Topic{}, fmt.Errorf("reload topic %d: %w", id, domain.ErrTopicNotFound)
	}

	return *created, nil
}

// GetTopic implements Repository.GetTopic.
func (r *SQLTopicRepository) GetTopic(ctx context.Context, id int64) (*domain.Topic, bool, error) {
	var row topicRow

	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectTopics+" WHERE t.id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query topic: %w", err)
	}

	topic := row.toDomain()

	return &topic, true, nil
}

// ListTopics implements Repository.ListTopics.
func (r *SQLTopicRepository) ListTopics(
	ctx context.Context,
	filter Filter,
	page domain.PageRequest,
) (_ []domain.Topic, _ int64, err error) {
	defer func() {
		if err != nil {
			r.log.ErrorContext(ctx, "list topics failed", "error", err)
		}
	}()

	orderBy, err := orderClause(page)
	if err != nil {
		return nil, 0, err
	}

	where, args := whereClause(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind("SELECT COUNT(*) FROM topics t"+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count topics: %w", err)
	}

	var rows []topicRow

	query := selectTopics + where + orderBy + " LIMIT ? OFFSET ?"
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), append(args, page.Size, page.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("query topics: %w", err)
	}

	return toDomain(rows), total, nil
}

// ListAllTopics implements Repository.ListAllTopics.
func (r *SQLTopicRepository) ListAllTopics(ctx context.Context) ([]domain.Topic, error) {
	var rows []topicRow

	if err := r.db.SelectContext(ctx, &rows, selectTopics+" ORDER BY t.id"); err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}

	return toDomain(rows), nil
}

// UpdateTopic implements Repository.UpdateTopic.
func (r *SQLTopicRepository) UpdateTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(
		"UPDATE topics SET message = ?, status = ?, course = ? WHERE id = ?",
	),
		topic.Message,
		string(topic.Status),
		topic.Course,
		topic.ID,
	)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("update topic: %w", err)
	}

	if err := requireAffected(res, topic.ID); err != nil {
		return domain.Topic{}, err
	}

	updated, ok, err := r.GetTopic(ctx, topic.ID)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("reload topic: %w", err)
	} else if !ok {
		return domain.Topic{}, fmt.Errorf("reload topic %d: %w", topic.ID, domain.ErrTopicNotFound)
	}

	return *updated, nil
}

// DeleteTopic implements Repository.DeleteTopic.
func (r *SQLTopicRepository) DeleteTopic(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM topics WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}

	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("topic %d: %w", id, domain.ErrTopicNotFound)
	}

	return nil
}

func whereClause(filter Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.Course != "" {
		conds = append(conds, `LOWER(t.course) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+escapeLike(filter.Course)+"%")
	}

	if filter.Status != "" {
		conds = append(conds, "t.status = ?")
		args = append(args, string(filter.Status))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(page domain.PageRequest) (string, error) {
	if page.SortField == "" {
		return " ORDER BY t.id", nil
	}

	column, ok := sortColumns[page.SortField]
	if !ok {
		return "", fmt.Errorf("%w: %w: %q", domain.ErrInvalidPageRequest, ErrUnknownSortField, page.SortField)
	}

	dir := "ASC"
	if page.SortDir == domain.SortDesc {
		dir = "DESC"
	}

	// id breaks ties so pages never overlap
	return " ORDER BY " + column + " " + dir + ", t.id " + dir, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toDomain(rows []topicRow) []domain.Topic {
	topics := make([]domain.Topic, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, row.toDomain())
	}

	return topics
}
