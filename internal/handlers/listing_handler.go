package handlers

import (
	"log"
	"net/http"

	"estateBack/internal/models"
	"estateBack/internal/services"
)

type ListingHandler struct {
	Service  *services.ListingService
	ErrorLog *log.Logger
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var in models.ListingInput
	if err := decodeJSON(r, &in); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	l, err := h.Service.Create(ctx, ActorFrom(r.Context()), in)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	var p models.ListingPatch
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	l, err := h.Service.Update(ctx, ActorFrom(r.Context()), getParam(r, "id"), p)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.Delete(ctx, ActorFrom(r.Context()), getParam(r, "id")); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Listing has been deleted"})
}

func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	l, err := h.Service.Get(ctx, getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// SearchListings serves the public search over approved listings.
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	limit, _, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	start, _, err := queryInt(r, "startIndex")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	q := r.URL.Query()
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	listings, err := h.Service.Search(ctx, services.ListingSearch{
		SearchTerm: q.Get("searchTerm"),
		Offer:      queryBool(r, "offer"),
		Furnished:  queryBool(r, "furnished"),
		Parking:    queryBool(r, "parking"),
		Type:       q.Get("type"),
		Sort:       q.Get("sort"),
		Order:      q.Get("order"),
		Limit:      limit,
		StartIndex: start,
	})
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) AdminListingsByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	listings, err := h.Service.ByStatus(ctx, ActorFrom(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) AdminChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	l, err := h.Service.ChangeStatus(ctx, ActorFrom(r.Context()), getParam(r, "id"), req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) AdminAllListings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	all, err := h.Service.AdminOverview(ctx, ActorFrom(r.Context()))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *ListingHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	feed, err := h.Service.Feed(ctx)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *ListingHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	st, err := h.Service.Stats(ctx, ActorFrom(r.Context()))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
