package item

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepo mocks the Repo port.
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, name, description string) (*Item, error) {
	args := m.Called(ctx, name, description)
	if it := args.Get(0); it != nil {
		return it.(*Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	args := m.Called(ctx, id)
	if it := args.Get(0); it != nil {
		return it.(*Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) List(ctx context.Context) ([]Item, error) {
	args := m.Called(ctx)
	if items := args.Get(0); items != nil {
		return items.([]Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Update(ctx context.Context, id int64, name, description *string) (*Item, error) {
	args := m.Called(ctx, id, name, description)
	if it := args.Get(0); it != nil {
		return it.(*Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepo) SetImageURL(ctx context.Context, id int64, url string) (*Item, error) {
	args := m.Called(ctx, id, url)
	if it := args.Get(0); it != nil {
		return it.(*Item), args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeStore records uploads and serves deterministic URLs.
type fakeStore struct {
	putKeys []string
}

func (f *fakeStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	f.putKeys = append(f.putKeys, key)
	return nil
}

func (f *fakeStore) Remove(_ context.Context, _ string) error { return nil }

func (f *fakeStore) URL(key string) string { return "http://cdn.test/" + key }

func newTestRouter(repo Repo, store *fakeStore) http.Handler {
	h := NewHandler(NewService(repo), store)
	r := chi.NewRouter()
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/image", h.UploadImage)
	})
	return r
}

func testItem() *Item {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &Item{ID: 100, Name: "Alexey Shatrov", CreatedAt: now, UpdatedAt: now}
}

// decodeBody unmarshals a response body and asserts the single-key envelope shape.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1, "envelope must have exactly one top-level key")
	return body
}

func TestGet_ReturnsItemInDataEnvelope(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, int64(100)).Return(testItem(), nil)

	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/100", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(100), data["id"])
	assert.Equal(t, "Alexey Shatrov", data["name"])
	repo.AssertExpectations(t)
}

func TestGet_MissingItemRendersDefaultNotFound(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, int64(7)).Return(nil, ErrNotFound)

	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/7", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error_message":"Item not found"}`, rec.Body.String())
}

func TestGet_NonNumericIDIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(new(MockRepo), &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "error_message")
}

func TestList_WrapsItemsInData(t *testing.T) {
	repo := new(MockRepo)
	repo.On("List", mock.Anything).Return([]Item{*testItem()}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	items := data["items"].([]any)
	assert.Len(t, items, 1)
}

func TestCreate_ReturnsCreatedEnvelope(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Create", mock.Anything, "Chess board", "Wooden").
		Return(&Item{ID: 1, Name: "Chess board", Description: "Wooden"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items",
		strings.NewReader(`{"name":"Chess board","description":"Wooden"}`))
	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Chess board", data["name"])
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateNameIsConflict(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Create", mock.Anything, "Chess board", "").Return(nil, ErrAlreadyExists)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"name":"Chess board"}`))
	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error_message":"item name already taken"}`, rec.Body.String())
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	newTestRouter(new(MockRepo), &fakeStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate_RequiresAtLeastOneField(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/items/1", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	newTestRouter(new(MockRepo), &fakeStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error_message":"nothing to update"}`, rec.Body.String())
}

func TestUpdate_PatchesName(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Update", mock.Anything, int64(1), mock.AnythingOfType("*string"), (*string)(nil)).
		Return(&Item{ID: 1, Name: "New name"}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/items/1", strings.NewReader(`{"name":"New name"}`))
	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "New name", data["name"])
}

func TestDelete_ReportsDeletion(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Delete", mock.Anything, int64(3)).Return(nil)

	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/items/3", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"deleted":true}}`, rec.Body.String())
}

func TestDelete_MissingItemIsNotFound(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Delete", mock.Anything, int64(3)).Return(ErrNotFound)

	rec := httptest.NewRecorder()
	newTestRouter(repo, &fakeStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/items/3", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error_message":"Item not found"}`, rec.Body.String())
}

func TestUploadImage_StoresFileAndUpdatesURL(t *testing.T) {
	store := &fakeStore{}
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, int64(100)).Return(testItem(), nil)
	repo.On("SetImageURL", mock.Anything, int64(100), mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, "http://cdn.test/items/100/") && strings.HasSuffix(url, ".png")
	})).Return(testItem(), nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "pic.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/100/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(repo, store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.putKeys, 1)
	assert.True(t, strings.HasPrefix(store.putKeys[0], "items/100/"))
	repo.AssertExpectations(t)
}

func TestUploadImage_RejectsUnsupportedExtension(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, int64(100)).Return(testItem(), nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	store := &fakeStore{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/100/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(repo, store).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.putKeys)
}
