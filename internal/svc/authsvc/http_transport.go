package authsvc

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
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig
}

// HTTPTransport handles HTTP requests for the authentication service.
// It provides endpoints for user registration, login and user lookup.
type HTTPTransport struct {
	authSvc *AuthService
	log     logging.Logger
	cfg     HTTPTransportConfig
	router  chi.Router
}

// NewHTTPTransport creates a new HTTPTransport instance with the given configuration.
// It requires an AuthService for handling authentication operations.
func NewHTTPTransport(
	authSvc *AuthService,
	cfg HTTPTransportConfig,
) *HTTPTransport {
	ht := &HTTPTransport{
		authSvc: authSvc,
		log:     logging.GetLogger("svc.authsvc.http_transport"),
		cfg:     cfg,
		router:  nil,
	}
	ht.router = http_.NewRouter(ht)

	return ht
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// RegisterRoutes mounts the auth service endpoints:
// - POST /auth/signup: Register a new user (public)
// - POST /auth/login: Login and get an auth token (public)
// - GET /users/me: The authenticated caller
// - GET /users/: All users
// - GET /users/{id}: One user.
func (ht *HTTPTransport) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", ht.HandleSignup)
	r.Post("/auth/login", ht.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(http_.Authenticating(ht.authSvc, ht.log))

		r.Get("/users/me", ht.HandleMe)
		r.Get("/users", ht.HandleListUsers)
		r.Get("/users/", ht.HandleListUsers)
		r.Get("/users/{id}", ht.HandleGetUser)
	})
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.router.ServeHTTP(w, r)
}

// HandleSignup processes user registration requests.
// Expects a JSON body {email, password, nombreUsuario}.
func (ht *HTTPTransport) HandleSignup(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleSignup(w, r)
}

func (ht *HTTPTransport) handleSignup(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "path", r.URL.Path))

	defer func(ctx context.Context) {
		if err != nil {
			log.WarnContext(ctx, "user signup failed", "error", err)
			http_.WriteError(w, err)
		} else {
			log.DebugContext(ctx, "user signed up")
		}
	}(r.Context())

	var req domain.SignupRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	created, err := ht.authSvc.Register(r.Context(), req)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	log = log.With(logging.Group("user", "id", created.ID))

	w.Header().Set("Location", "/users/"+strconv.FormatInt(created.ID, 10))

	if err := http_.WriteJSON(w, http.StatusCreated, domain.NewUserResponse(created)); err != nil {
		log.ErrorContext(r.Context(), "write response failed", "error", err)
	}

	return nil
}

// HandleLogin processes user login requests.
// Expects a JSON body {email, password}.
// Returns an auth token on successful login.
func (ht *HTTPTransport) HandleLogin(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleLogin(w, r)
}

func (ht *HTTPTransport) handleLogin(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "path", r.URL.Path))

	defer func(ctx context.Context) {
		if err != nil {
			log.WarnContext(ctx, "user login failed", "error", err)
			http_.WriteError(w, err)
		} else {
			log.DebugContext(ctx, "user logged in")
		}
	}(r.Context())

	var req domain.LoginRequest
	if err := http_.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	token, err := ht.authSvc.Login(r.Context(), req)
	if err != nil {
		return fmt.Errorf("login user: %w", err)
	}

	if err := http_.WriteJSON(w, http.StatusOK, token); err != nil {
		log.ErrorContext(r.Context(), "write response failed", "error", err)
	}

	return nil
}

// HandleMe returns the authenticated caller.
func (ht *HTTPTransport) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := context_.IdentityFromContext(r.Context())
	if !ok {
		http_.WriteError(w, domain.ErrUnauthenticated)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, domain.NewUserResponse(identity))
}

// HandleListUsers returns all users.
func (ht *HTTPTransport) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListUsers(w, r)
}

func (ht *HTTPTransport) handleListUsers(w http.ResponseWriter, r *http.Request) (err error) {
	defer func(ctx context.Context) {
		if err != nil {
			ht.log.ErrorContext(ctx, "list users failed", "error", err)
			http_.WriteError(w, err)
		}
	}(r.Context())

	users, err := ht.authSvc.ListUsers(r.Context())
	if err != nil {
		return err
	}

	resp := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, domain.NewUserResponse(u))
	}

	_ = http_.WriteJSON(w, http.StatusOK, resp)

	return nil
}

// HandleGetUser returns the user named by the {id} path parameter.
func (ht *HTTPTransport) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetUser(w, r)
}

func (ht *HTTPTransport) handleGetUser(w http.ResponseWriter, r *http.Request) (err error) {
	defer func(ctx context.Context) {
		if err != nil {
			ht.log.WarnContext(ctx, "get user failed", "error", err)
			http_.WriteError(w, err)
		}
	}(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return fmt.Errorf("user id: %w", domain.ErrUserNotFound)
	}

	found, err := ht.authSvc.GetUser(r.Context(), id)
	if err != nil {
		return err
	}

	_ = http_.WriteJSON(w, http.StatusOK, domain.NewUserResponse(found))

	return nil
}
