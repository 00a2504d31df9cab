package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GrytsenkoAndrey/ed-go-custom-response/internal/response"
	"github.com/GrytsenkoAndrey/ed-go-custom-response/internal/storage"
)

const (
	nameMaxLen   = 100
	imageMaxSize = 2 << 20 // 2 MiB
)

// Handler holds HTTP handlers for item endpoints.
type Handler struct {
	svc   *Service
	store storage.ObjectStore
}

// NewHandler creates a new item Handler.
func NewHandler(svc *Service, store storage.ObjectStore) *Handler {
	return &Handler{svc: svc, store: store}
}

type createItemRequest struct {
	Name        string `json:"name"        example:"Chess board"`
	Description string `json:"description" example:"Wooden, 40x40cm"`
}

type updateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// List godoc
//
//	@Summary		List items
//	@Description	Returns all catalog items ordered by creation time.
//	@Tags			items
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]interface{}
//	@Router			/items [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError().Render(w, r)
		return
	}
	response.OK(map[string]any{"items": items}).Render(w, r)
}

// Get godoc
//
//	@Summary		Get item
//	@Description	Returns a single item by ID.
//	@Tags			items
//	@Produce		json
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	map[string]interface{}
//	@Failure		404	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]interface{}
//	@Router			/items/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	it, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound("").Render(w, r)
			return
		}
		response.InternalError().Render(w, r)
		return
	}

	response.OK(it).Render(w, r)
}

// Create godoc
//
//	@Summary		Create item
//	@Description	Adds a new item to the catalog. Names are unique.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		createItemRequest	true	"Item fields"
//	@Success		201		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]interface{}
//	@Failure		409		{object}	map[string]interface{}
//	@Failure		500		{object}	map[string]interface{}
//	@Router			/items [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest("invalid request body").Render(w, r)
		return
	}
	if req.Name == "" || len(req.Name) > nameMaxLen {
		response.BadRequest(fmt.Sprintf("name must be 1-%d characters", nameMaxLen)).Render(w, r)
		return
	}

	it, err := h.svc.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			response.Conflict("item name already taken").Render(w, r)
			return
		}
		response.InternalError().Render(w, r)
		return
	}

	response.Created(it).Render(w, r)
}

// Update godoc
//
//	@Summary		Update item
//	@Description	Patches item fields; omitted fields stay unchanged.
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Item ID"
//	@Param			request	body		updateItemRequest	true	"Fields to change"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]interface{}
//	@Failure		404		{object}	map[string]interface{}
//	@Failure		409		{object}	map[string]interface{}
//	@Failure		500		{object}	map[string]interface{}
//	@Router			/items/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest("invalid request body").Render(w, r)
		return
	}
	if req.Name == nil && req.Description == nil {
		response.BadRequest("nothing to update").Render(w, r)
		return
	}
	if req.Name != nil && (*req.Name == "" || len(*req.Name) > nameMaxLen) {
		response.BadRequest(fmt.Sprintf("name must be 1-%d characters", nameMaxLen)).Render(w, r)
		return
	}

	it, err := h.svc.Update(r.Context(), id, req.Name, req.Description)
	if err != nil {
		switch {
		case h.svc.IsNotFound(err):
			response.NotFound("").Render(w, r)
		case errors.Is(err, ErrAlreadyExists):
			response.Conflict("item name already taken").Render(w, r)
		default:
			response.InternalError().Render(w, r)
		}
		return
	}

	response.OK(it).Render(w, r)
}

// Delete godoc
//
//	@Summary		Delete item
//	@Description	Removes an item from the catalog.
//	@Tags			items
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Item ID"
//	@Success		200	{object}	map[string]interface{}
//	@Failure		400	{object}	map[string]interface{}
//	@Failure		404	{object}	map[string]interface{}
//	@Failure		500	{object}	map[string]interface{}
//	@Router			/items/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound("").Render(w, r)
			return
		}
		response.InternalError().Render(w, r)
		return
	}

	response.OK(map[string]bool{"deleted": true}).Render(w, r)
}

// UploadImage godoc
//
//	@Summary		Upload item image
//	@Description	Accepts a jpg/jpeg/png file (max 2 MiB) and stores it in object storage; the item's imageUrl is updated to the public URL.
//	@Tags			items
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int		true	"Item ID"
//	@Param			file	formData	file	true	"Image file"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]interface{}
//	@Failure		404		{object}	map[string]interface{}
//	@Failure		500		{object}	map[string]interface{}
//	@Router			/items/{id}/image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	// Make sure the item exists before touching storage.
	if _, err := h.svc.GetByID(r.Context(), id); err != nil {
		if h.svc.IsNotFound(err) {
			response.NotFound("").Render(w, r)
			return
		}
		response.InternalError().Render(w, r)
		return
	}

	if err := r.ParseMultipartForm(imageMaxSize); err != nil {
		response.BadRequest("invalid multipart form").Render(w, r)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest("file field is required").Render(w, r)
		return
	}
	defer file.Close()

	if header.Size > imageMaxSize {
		response.BadRequest("file exceeds 2 MiB limit").Render(w, r)
		return
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		response.BadRequest("only jpg, jpeg, and png files are supported").Render(w, r)
		return
	}

	key := fmt.Sprintf("items/%d/%s%s", id, uuid.New().String(), ext)
	if err := h.store.Put(r.Context(), key, file, header.Size, contentType); err != nil {
		response.InternalError().Render(w, r)
		return
	}

	it, err := h.svc.SetImageURL(r.Context(), id, h.store.URL(key))
	if err != nil {
		response.InternalError().Render(w, r)
		return
	}

	response.OK(it).Render(w, r)
}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// itemID parses the {id} URL parameter; on failure it renders a 400 envelope
// and reports false.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest("id must be a positive integer").Render(w, r)
		return 0, false
	}
	return id, true
}
