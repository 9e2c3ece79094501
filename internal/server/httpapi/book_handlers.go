package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/bookapi/internal/common"
	"github.com/dmitrijs2005/bookapi/internal/server/models"
)

type coverUploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type coverURLResponse struct {
	URL string `json:"url"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.Get(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.bookError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := decodeJSON(w, r, h.maxBody, &book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.books.Create(r.Context(), &book)
	if err != nil {
		h.bookError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/books/"+url.PathEscape(created.ISBN))
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var book models.Book
	if err := decodeJSON(w, r, h.maxBody, &book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.books.Update(r.Context(), r.PathValue("isbn"), &book); err != nil {
		h.bookError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.books.Delete(r.Context(), r.PathValue("isbn")); err != nil {
		h.bookError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) requestCoverUpload(w http.ResponseWriter, r *http.Request) {
	key, u, err := h.covers.RequestUpload(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.bookError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coverUploadResponse{Key: key, URL: u})
}

func (h *Handler) getCoverURL(w http.ResponseWriter, r *http.Request) {
	u, err := h.covers.DownloadURL(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.bookError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coverURLResponse{URL: u})
}

func (h *Handler) bookError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "a book with this ISBN already exists")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrCoversDisabled):
		writeError(w, http.StatusServiceUnavailable, "cover storage is not configured")
	default:
		h.internalError(w, r, err)
	}
}
