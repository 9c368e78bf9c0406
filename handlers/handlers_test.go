package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracketview/brackets"
	"github.com/Dosada05/bracketview/middleware"
	"github.com/Dosada05/bracketview/models"
	"github.com/Dosada05/bracketview/services"
	"github.com/Dosada05/bracketview/storage"
	"github.com/Dosada05/bracketview/utils"
)

type stubAuthService struct {
	user *models.User
	err  error
}

func (s *stubAuthService) Register(_ context.Context, input services.RegisterInput) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 7, Username: input.Username, Email: input.Email, Role: models.RolePlayer}, nil
}

func (s *stubAuthService) Login(context.Context, services.LoginInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) GetUser(_ context.Context, id int) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, services.ErrUserNotFound
	}
	return s.user, nil
}

type stubBracketService struct {
	doc       json.RawMessage
	err       error
	generated []int
}

func (s *stubBracketService) Generate(_ context.Context, actor models.Actor, eventID int) (*brackets.Bracket, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.generated = append(s.generated, eventID)
	return &brackets.Bracket{Format: brackets.FormatSingleElimination}, nil
}

func (s *stubBracketService) GetBracket(context.Context, int) (json.RawMessage, error) {
	return s.doc, s.err
}

func (s *stubBracketService) PublishSnapshot(context.Context, models.Actor, int) (*storage.UploadResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &storage.UploadResult{Key: "k", Location: "https://cdn.example.com/k"}, nil
}

type stubSeedingService struct {
	previewSeeds []models.SeedAssignment
	previewCalls int
}

func (s *stubSeedingService) GetSeeds(context.Context, int) ([]models.Participant, error) {
	return []models.Participant{}, nil
}

func (s *stubSeedingService) ReplaceSeeds(_ context.Context, _ models.Actor, _ int, seeds []models.SeedAssignment) ([]models.Participant, error) {
	return []models.Participant{}, nil
}

func (s *stubSeedingService) Preview(_ context.Context, _ int, seeds []models.SeedAssignment) (*services.BracketPreview, error) {
	s.previewCalls++
	s.previewSeeds = seeds
	return &services.BracketPreview{}, nil
}

func withActor(r *http.Request, id int, role models.UserRole) *http.Request {
	claims := jwt.MapClaims{utils.ClaimUserID: float64(id), utils.ClaimRole: string(role)}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", services.ErrEventNotFound), http.StatusNotFound},
		{services.ErrBracketNotGenerated, http.StatusNotFound},
		{services.ErrSeedingLocked, http.StatusConflict},
		{services.ErrEventInvalidStatusTransition, http.StatusConflict},
		{services.ErrRegistrationsExist, http.StatusConflict},
		{services.ErrMatchAlreadyCompleted, http.StatusConflict},
		{fmt.Errorf("%w: seed 3 missing", services.ErrInvalidSeeds), http.StatusUnprocessableEntity},
		{services.ErrInvalidWinner, http.StatusUnprocessableEntity},
		{services.ErrInvalidFormat, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrSnapshotsDisabled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "error")
		})
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "must not be empty"},
		{"unknown field", `{"nope": 1}`, "unknown key"},
		{"two values", `{} {}`, "single JSON value"},
		{"bad type", `{"seeds": "x"}`, "incorrect JSON type"},
		{"malformed", `{"seeds": [`, "badly-formed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst seedsInput
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := readJSON(httptest.NewRecorder(), r, &dst)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestGetIDFromURL(t *testing.T) {
	var got int
	var gotErr error
	router := chi.NewRouter()
	router.Get("/events/{eventID}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = getIDFromURL(r, "eventID")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, 42, got)

	for _, path := range []string{"/events/abc", "/events/0", "/events/-3"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		assert.Error(t, gotErr, path)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &models.User{ID: 3, Username: "ann", Email: "ann@example.com", Role: models.RoleOrganizer}
	h := NewAuthHandler(&stubAuthService{user: user}, "secret")

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ann@example.com","password":"hunter22"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	token, ok := body["token"].(string)
	require.True(t, ok)

	claims, err := utils.ParseJWT([]byte("secret"), token)
	require.NoError(t, err)
	assert.Equal(t, float64(3), claims[utils.ClaimUserID])
	assert.Equal(t, "organizer", claims[utils.ClaimRole])
	assert.Equal(t, "ann", claims[utils.ClaimName])
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{err: services.ErrInvalidCredentials}, "secret")

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.c"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	user := &models.User{ID: 3, Username: "ann", Role: models.RolePlayer}
	h := NewAuthHandler(&stubAuthService{user: user}, "secret")

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Me(rec, withActor(httptest.NewRequest(http.MethodGet, "/auth/me", nil), 3, models.RolePlayer))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func bracketRouter(h *BracketHandler) chi.Router {
	router := chi.NewRouter()
	router.Get("/events/{eventID}/bracket", h.GetBracket)
	router.Post("/events/{eventID}/bracket", h.Generate)
	router.Post("/events/{eventID}/snapshots", h.PublishSnapshot)
	return router
}

func TestBracketHandler_GetBracketWritesDocument(t *testing.T) {
	doc := json.RawMessage(`{"bracket":{"format":"round_robin"}}`)
	router := bracketRouter(NewBracketHandler(&stubBracketService{doc: doc}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/5/bracket", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, string(doc), rec.Body.String())
}

func TestBracketHandler_GetBracketErrors(t *testing.T) {
	router := bracketRouter(NewBracketHandler(&stubBracketService{err: services.ErrBracketNotGenerated}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/5/bracket", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/x/bracket", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBracketHandler_Generate(t *testing.T) {
	svc := &stubBracketService{}
	router := bracketRouter(NewBracketHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/9/bracket", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.generated)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodPost, "/events/9/bracket", nil), 1, models.RoleOrganizer))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int{9}, svc.generated)
}

func TestBracketHandler_PublishSnapshotDisabled(t *testing.T) {
	router := bracketRouter(NewBracketHandler(&stubBracketService{err: services.ErrSnapshotsDisabled}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withActor(httptest.NewRequest(http.MethodPost, "/events/9/snapshots", nil), 1, models.RoleAdmin))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSeedingHandler_Preview(t *testing.T) {
	svc := &stubSeedingService{}
	h := NewSeedingHandler(svc)
	router := chi.NewRouter()
	router.Get("/events/{eventID}/seeding/preview", h.Preview)
	router.Post("/events/{eventID}/seeding/preview", h.Preview)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/1/seeding/preview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.previewSeeds, "GET previews the stored seeds")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/1/seeding/preview", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, svc.previewSeeds)
	assert.Empty(t, svc.previewSeeds)

	body := bytes.NewBufferString(`{"seeds":[{"participant_id":4,"seed":1}]}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/1/seeding/preview", body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.previewSeeds, 1)
	assert.Equal(t, 4, svc.previewSeeds[0].ParticipantID)
	assert.Equal(t, 1, *svc.previewSeeds[0].Seed)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/events/1/seeding/preview", strings.NewReader(`{"seeds":1}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 3, svc.previewCalls)
}

func TestFormatHandler_ListFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewFormatHandler().ListFormats(rec, httptest.NewRequest(http.MethodGet, "/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	formats, ok := decodeBody(t, rec)["formats"].([]interface{})
	require.True(t, ok)
	assert.Len(t, formats, 3)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws/events/1", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	restricted := originChecker([]string{"https://brackets.example.com"})
	assert.True(t, restricted(req("https://BRACKETS.example.com")))
	assert.False(t, restricted(req("https://evil.example.com")))
	assert.True(t, restricted(req("")), "non-browser clients send no origin")

	assert.True(t, originChecker([]string{"*"})(req("https://anything.example.com")))
}
