package topicsvc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkrupp/foro/internal/domain"
	context_ "github.com/mkrupp/foro/internal/infra/context"
	"github.com/mkrupp/foro/internal/infra/logging"
	http_ "github.com/mkrupp/foro/internal/infra/transport/http"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
)

const (
	// BasePath is where the topic endpoints are mounted.
	BasePath = "/api/topicos"

	defaultSort = "fechaCreacion"
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig
}

// HTTPTransport handles HTTP requests for the topic service.
// Every endpoint requires an authenticated caller.
type HTTPTransport struct {
	topicSvc      TopicService
	authenticator authclient.Authenticator
	log           logging.Logger
	cfg           HTTPTransportConfig
	router        chi.Router
}

// NewHTTPTransport creates a new HTTPTransport instance.
// Bearer tokens are resolved to callers by authenticator.
func NewHTTPTransport(
	topicSvc TopicService,
	authenticator authclient.Authenticator,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	ht := &HTTPTransport{
		topicSvc:      topicSvc,
		authenticator: authenticator,
		log:           logging.GetLogger("svc.topicsvc.http_transport"),
		cfg:           cfg,
		router:        nil,
	}
	ht.router = http_.NewRouter(ht)

	return ht
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// RegisterRoutes mounts the topic endpoints below BasePath:
// - POST /: Create a topic authored by the caller
// - GET /: One page of topics, sorted by creation time by default
// - GET /todos: All topics
// - GET /buscar/curso?curso=: Topics by course
// - GET /buscar/status?status=: Topics by status
// - GET /{id}: One topic
// - PATCH /{id}: Update message, status or course
// - PATCH /{id}/status?status=: Update the status only
// - DELETE /{id}: Delete a topic.
func (ht *HTTPTransport) RegisterRoutes(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Use(http_.Authenticating(ht.authenticator, ht.log))

		r.Post("/", ht.HandleCreate)
		r.Get("/", ht.HandleList)
		r.Get("/todos", ht.HandleListAll)
		r.Get("/buscar/curso", ht.HandleSearchByCourse)
		r.Get("/buscar/status", ht.HandleSearchByStatus)
		r.Get("/{id}", ht.HandleGet)
		r.Patch("/{id}", ht.HandleUpdate)
		r.Patch("/{id}/status", ht.HandleUpdateStatus)
		r.Delete("/{id}", ht.HandleDelete)
	})
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.router.ServeHTTP(w, r)
}

// serve runs handle and reports its error to the client and the log.
func (ht *HTTPTransport) serve(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	handle func(w http.ResponseWriter, r *http.Request) error,
) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "path", r.URL.Path))

	err := handle(w, r)

	switch status := http_.StatusForError(err); {
	case err == nil:
		log.DebugContext(r.Context(), action+" done")
	case status >= http.StatusInternalServerError:
		log.ErrorContext(r.Context(), action+" failed", "error", err)
		http_.WriteError(w, err)
	default:
		log.WarnContext(r.Context(), action+" failed", "error", err)
		http_.WriteError(w, err)
	}
}

func (ht *HTTPTransport) respond(ctx context.Context, w http.ResponseWriter, status int, v any) {
	if err := http_.WriteJSON(w, status, v); err != nil {
		ht.log.ErrorContext(ctx, "write response failed", "error", err)
	}
}

// HandleCreate creates a topic. The author is the authenticated caller;
// any author in the body is ignored.
func (ht *HTTPTransport) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "create topic", ht.handleCreate)
}

func (ht *HTTPTransport) handleCreate(w http.ResponseWriter, r *http.Request) error {
	author, ok := context_.IdentityFromContext(r.Context())
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req domain.TopicRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	created, err := ht.topicSvc.Create(r.Context(), author, req)
	if err != nil {
		return err
	}

	w.Header().Set("Location", BasePath+"/"+strconv.FormatInt(created.ID, 10))
	ht.respond(r.Context(), w, http.StatusCreated, domain.NewTopicResponse(created))

	return nil
}

// HandleList returns one page of topics.
func (ht *HTTPTransport) HandleList(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "list topics", ht.handleList)
}

func (ht *HTTPTransport) handleList(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r, defaultSort)
	if err != nil {
		return err
	}

	topics, err := ht.topicSvc.List(r.Context(), page)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.MapPage(topics, domain.NewTopicResponse))

	return nil
}

// HandleListAll returns all topics without paging.
func (ht *HTTPTransport) HandleListAll(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "list all topics", ht.handleListAll)
}

func (ht *HTTPTransport) handleListAll(w http.ResponseWriter, r *http.Request) error {
	topics, err := ht.topicSvc.ListAll(r.Context())
	if err != nil {
		return err
	}

	resp := make([]domain.TopicResponse, 0, len(topics))
	for _, t := range topics {
		resp = append(resp, domain.NewTopicResponse(t))
	}

	ht.respond(r.Context(), w, http.StatusOK, resp)

	return nil
}

// HandleSearchByCourse returns one page of topics matching the curso query parameter.
func (ht *HTTPTransport) HandleSearchByCourse(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "search topics by course", ht.handleSearchByCourse)
}

func (ht *HTTPTransport) handleSearchByCourse(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r, "")
	if err != nil {
		return err
	}

	topics, err := ht.topicSvc.SearchByCourse(r.Context(), r.URL.Query().Get("curso"), page)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.MapPage(topics, domain.NewTopicResponse))

	return nil
}

// HandleSearchByStatus returns one page of topics in the status query parameter.
func (ht *HTTPTransport) HandleSearchByStatus(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "search topics by status", ht.handleSearchByStatus)
}

func (ht *HTTPTransport) handleSearchByStatus(w http.ResponseWriter, r *http.Request) error {
	page, err := pageRequest(r, "")
	if err != nil {
		return err
	}

	status, err := domain.ParseTopicStatus(r.URL.Query().Get("status"))
	if err != nil {
		return err
	}

	topics, err := ht.topicSvc.SearchByStatus(r.Context(), status, page)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.MapPage(topics, domain.NewTopicResponse))

	return nil
}

// HandleGet returns the topic named by the {id} path parameter.
func (ht *HTTPTransport) HandleGet(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "get topic", ht.handleGet)
}

func (ht *HTTPTransport) handleGet(w http.ResponseWriter, r *http.Request) error {
	id, err := topicID(r)
	if err != nil {
		return err
	}

	found, err := ht.topicSvc.Get(r.Context(), id)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.NewTopicResponse(found))

	return nil
}

// HandleUpdate applies the non-empty fields of the JSON body to a topic.
func (ht *HTTPTransport) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "update topic", ht.handleUpdate)
}

func (ht *HTTPTransport) handleUpdate(w http.ResponseWriter, r *http.Request) error {
	id, err := topicID(r)
	if err != nil {
		return err
	}

	var req domain.TopicRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	updated, err := ht.topicSvc.Update(r.Context(), id, req)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.NewTopicResponse(updated))

	return nil
}

// HandleUpdateStatus sets the status of a topic from the status query parameter.
func (ht *HTTPTransport) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "update topic status", ht.handleUpdateStatus)
}

func (ht *HTTPTransport) handleUpdateStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := topicID(r)
	if err != nil {
		return err
	}

	status, err := domain.ParseTopicStatus(r.URL.Query().Get("status"))
	if err != nil {
		return err
	}

	updated, err := ht.topicSvc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		return err
	}

	ht.respond(r.Context(), w, http.StatusOK, domain.NewTopicResponse(updated))

	return nil
}

// HandleDelete deletes the topic named by the {id} path parameter.
func (ht *HTTPTransport) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ht.serve(w, r, "delete topic", ht.handleDelete)
}

func (ht *HTTPTransport) handleDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := topicID(r)
	if err != nil {
		return err
	}

	if err := ht.topicSvc.Delete(r.Context(), id); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// topicID parses the {id} path parameter. Anything but a positive integer names no topic.
func topicID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("topic id %q: %w", raw, domain.ErrTopicNotFound)
	}

	return id, nil
}

func pageRequest(r *http.Request, fallbackSort string) (domain.PageRequest, error) {
	q := r.URL.Query()

	return domain.ParsePageRequest(q.Get("page"), q.Get("size"), q.Get("sort"), fallbackSort)
}
