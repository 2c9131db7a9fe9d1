package handlers

import (
	"log"
	"net/http"
	"strings"

	"estateBack/internal/models"
	"estateBack/internal/services"
)

type UserHandler struct {
	Service  *services.UserService
	Listings *services.ListingService
	ErrorLog *log.Logger
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	user, err := h.Service.SignUp(ctx, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	res, err := h.Service.SignIn(ctx, req)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.SignOut(ctx, strings.TrimSpace(r.Header.Get("Refresh-Token"))); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User has been logged out"})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	user, err := h.Service.Get(ctx, ActorFrom(r.Context()), getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	user, err := h.Service.Public(ctx, getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	user, err := h.Service.UpdateSelf(ctx, ActorFrom(r.Context()), getParam(r, "id"), upd)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.DeleteSelf(ctx, ActorFrom(r.Context()), getParam(r, "id")); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User and listings have been deleted"})
}

// UserListings serves both the self view and the admin view of an account's
// listings; the service decides who may see them.
func (h *UserHandler) UserListings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	listings, err := h.Listings.OwnerListings(ctx, ActorFrom(r.Context()), getParam(r, "id"))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *UserHandler) AdminAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	users, err := h.Service.AdminList(ctx, ActorFrom(r.Context()))
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	if err := h.Service.AdminDelete(ctx, ActorFrom(r.Context()), getParam(r, "id")); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User and all listings have been deleted by admin"})
}

func (h *UserHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	ctx, cancel := contextWithTimeout(r)
	defer cancel()

	user, err := h.Service.AdminUpdate(ctx, ActorFrom(r.Context()), getParam(r, "id"), upd)
	if err != nil {
		respondError(w, h.ErrorLog, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
