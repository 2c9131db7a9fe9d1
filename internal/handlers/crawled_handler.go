package handlers

import (
	"log"
	"net/http"

	"estateBack/internal/models"
	"estateBack/internal/services"
)

type CrawledHandler struct {
	Service  *services.CrawledService
	ErrorLog *log.Logger
}

// SearchCrawled returns a flat list, or a page envelope when "page" is given.
func (h *CrawledHandler) SearchCrawled(w http.ResponseWriter, r *http.Request) {
	start, _, err := queryInt(r, "startIndex")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	limit, _, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	page, paged, err := queryInt(r, "page")
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if paged && page < 1 {
		page = 1
	}

	q := r.URL.Query()
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	res, err := h.Service.Search(ctx, services.CrawledSearch{
		SearchTerm:  q.Get("searchTerm"),
		Ward:        q.Get("ward"),
		Direction:   q.Get("direction"),
		StreetWidth: q.Get("streetWidth"),
		Sort:        q.Get("sort"),
		Order:       q.Get("order"),
		StartIndex:  start,
		Limit:       limit,
		Page:        page,
	})
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	if !res.Paged {
		writeJSON(w, http.StatusOK, res.Listings)
		return
	}
	writeJSON(w, http.StatusOK, models.CrawledPage{
		Listings:   res.Listings,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	})
}

func (h *CrawledHandler) GetCrawled(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	c, err := h.Service.Get(ctx, getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CrawledHandler) GetCrawledView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	v, err := h.Service.View(ctx, getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CrawledHandler) UpdateCrawled(w http.ResponseWriter, r *http.Request) {
	var p models.CrawledPatch
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	c, err := h.Service.Update(ctx, ActorFrom(r.Context()), getParam(r, "id"), p)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CrawledHandler) DeleteCrawled(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.Delete(ctx, ActorFrom(r.Context()), getParam(r, "id")); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Crawled listing has been deleted"})
}
