package api

import (
	"net/http"

	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/service"
	"github.com/phrazzld/stash-api/internal/store"
)

// ItemHandler handles the item CRUD endpoints. Every route requires an
// authenticated user; ownership (owner-or-superuser) is enforced here, per
// resource, before any mutation.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /items. The owner is always the authenticated user.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.itemService.Create(r.Context(), service.ItemDraft{
		Title:       req.Title,
		Description: req.Description,
	}, user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewItemResponse(item))
}

// List handles GET /items: the authenticated user's own items, paged.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	skip, limit := pageParams(r)

	items, err := h.itemService.ListForOwner(r.Context(), user.ID, skip, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewItemListResponse(items))
}

// Get handles GET /items/{itemID}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewItemResponse(item))
}

// Update handles PUT /items/{itemID}. Omitted fields are untouched;
// ownership never changes.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.itemService.Update(r.Context(), item.ID, store.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewItemResponse(updated))
}

// Delete handles DELETE /items/{itemID}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadOwnedItem(w, r)
	if !ok {
		return
	}

	if err := h.itemService.Delete(r.Context(), item.ID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}

// loadOwnedItem resolves the item in the path and enforces the
// owner-or-superuser rule. On failure the error response has already been
// written. Existence is reported before ownership: a 404 for a missing item,
// a 403 for someone else's.
func (h *ItemHandler) loadOwnedItem(w http.ResponseWriter, r *http.Request) (*domain.Item, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}

	id, err := getPathUUID(r, "itemID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	item, err := h.itemService.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	if !item.OwnedBy(user) {
		HandleAPIError(w, r, domain.ErrForbidden, "Not enough permissions")
		return nil, false
	}

	return item, true
}
