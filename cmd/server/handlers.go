package main

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PicardRaphael/todo-api-go/pkg/apperr"
	"github.com/PicardRaphael/todo-api-go/pkg/audit"
	"github.com/PicardRaphael/todo-api-go/pkg/auth"
	"github.com/PicardRaphael/todo-api-go/pkg/middleware"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// api is the demonstration surface the pipeline fronts. Handlers
// return catalog failures and let the boundary render them.
type api struct {
	store  *store
	tokens *auth.Service
	trail  *audit.Trail
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
}

type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.NewBadRequest("request body is not valid JSON")
	}
	return nil
}

func (a *api) register(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if req.Username == "" {
		return apperr.NewRequiredFieldMissing("username")
	}
	if !usernamePattern.MatchString(req.Username) {
		a.reportSuspicious(r, "username", req.Username)
		return apperr.NewInvalidUsername(req.Username, "must be 3-32 characters of letters, digits, '-' or '_'")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.NewInvalidEmail(req.Email)
	}
	if err := auth.CheckPasswordStrength(req.Password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	u, err := a.store.createUser(req.Username, req.Email, hash, auth.DefaultScopes())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	})
}

// login deliberately answers every credential failure with
// INVALID_CREDENTIALS: an unknown username must be indistinguishable
// from a wrong password.
func (a *api) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	u, ok := a.store.userByUsername(req.Username)
	if !ok || !auth.VerifyPassword(u.PasswordHash, req.Password) {
		a.recordAuthFailed(r, req.Username)
		return apperr.NewInvalidCredentials(req.Username)
	}
	if !u.Active {
		return apperr.NewUserInactive(u.ID)
	}
	return a.issueTokens(w, u)
}

func (a *api) refresh(w http.ResponseWriter, r *http.Request) error {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	tok, err := a.tokens.Validate(req.RefreshToken, auth.TypeRefresh)
	if err != nil {
		return err
	}
	u, err := a.store.userByID(tok.SubjectID)
	if err != nil {
		return err
	}
	if !u.Active {
		return apperr.NewUserInactive(u.ID)
	}
	return a.issueTokens(w, u)
}

func (a *api) issueTokens(w http.ResponseWriter, u *user) error {
	access, issued, err := a.tokens.IssueAccessToken(u.ID, u.Scopes)
	if err != nil {
		return err
	}
	refresh, _, err := a.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (a *api) listTodos(w http.ResponseWriter, r *http.Request) error {
	tok := middleware.TokenFrom(r.Context())
	return writeJSON(w, http.StatusOK, a.store.listTodos(tok.SubjectID))
}

func (a *api) createTodo(w http.ResponseWriter, r *http.Request) error {
	var req todoRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	tok := middleware.TokenFrom(r.Context())
	t, err := a.store.createTodo(tok.SubjectID, req.Title, req.Description, req.Priority)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, t)
}

func (a *api) getTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	tok := middleware.TokenFrom(r.Context())
	t, err := a.store.getTodo(id, tok.SubjectID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, t)
}

func (a *api) completeTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	tok := middleware.TokenFrom(r.Context())
	t, err := a.store.completeTodo(id, tok.SubjectID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, t)
}

func (a *api) deleteTodo(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	tok := middleware.TokenFrom(r.Context())
	if err := a.store.deleteTodo(id, tok.SubjectID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NewValidation("id", raw, "must be a positive integer")
	}
	return id, nil
}

func (a *api) recordAuthFailed(r *http.Request, username string) {
	a.trail.Record(r.Context(), audit.Event{
		Type:      audit.EventAuthFailed,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.RequestID(r.Context()),
		ClientKey: middleware.ClientKey(r.Context()),
		Endpoint:  r.URL.Path,
		ErrorCode: "INVALID_CREDENTIALS",
		Fields:    map[string]any{"username": username},
	})
}

// reportSuspicious flags rejected inputs that look like probing,
// e.g. markup or quoting characters in identity fields.
func (a *api) reportSuspicious(r *http.Request, field, value string) {
	if !strings.ContainsAny(value, "<>'\";") {
		return
	}
	a.trail.Record(r.Context(), audit.Event{
		Type:      audit.EventSuspiciousInput,
		Timestamp: time.Now().UTC(),
		RequestID: middleware.RequestID(r.Context()),
		ClientKey: middleware.ClientKey(r.Context()),
		Endpoint:  r.URL.Path,
		Fields:    map[string]any{"field": field},
	})
}
