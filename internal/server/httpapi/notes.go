package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

type shareRequest struct {
	Email      string            `json:"email"`
	Permission models.Permission `json:"permission"`
}

// listFilter reads search, category, sortBy and order from the query string.
// Unknown sortBy values sort by date; anything but "asc" is descending.
func listFilter(r *http.Request) models.ListFilter {
	q := r.URL.Query()
	f := models.ListFilter{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		SortBy:    models.SortByDate,
		Ascending: q.Get("order") == "asc",
	}
	if q.Get("sortBy") == string(models.SortByTitle) {
		f.SortBy = models.SortByTitle
	}
	return f
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.List(r.Context(), userID(r.Context()), listFilter(r))
	if err != nil {
		s.writeError(w, r, err, "fetch notes failed")
		return
	}
	writeList(w, notes)
}

func (s *Server) listTrash(w http.ResponseWriter, r *http.Request) {
	notes, err := s.notes.ListTrash(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "fetch deleted notes failed")
		return
	}
	writeList(w, notes)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Get(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, "fetch note failed")
		return
	}
	writeData(w, http.StatusOK, n, "")
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if err := decode(r, &in); err != nil {
		writeBadJSON(w)
		return
	}

	n, err := s.notes.Create(r.Context(), userID(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err, "create note failed")
		return
	}
	writeData(w, http.StatusCreated, n, "Note created successfully")
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var patch models.NotePatch
	if err := decode(r, &patch); err != nil {
		writeBadJSON(w)
		return
	}

	n, err := s.notes.Update(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err, "update note failed")
		return
	}
	writeData(w, http.StatusOK, n, "Note updated successfully")
}

func (s *Server) togglePin(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.TogglePin(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, "toggle pin failed")
		return
	}
	msg := "Note unpinned successfully"
	if n.IsPinned {
		msg = "Note pinned successfully"
	}
	writeData(w, http.StatusOK, n, msg)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.SoftDelete(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err, "delete note failed")
		return
	}
	writeMessage(w, http.StatusOK, true, "Note moved to trash")
}

func (s *Server) restoreNote(w http.ResponseWriter, r *http.Request) {
	n, err := s.notes.Restore(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, "restore note failed")
		return
	}
	writeData(w, http.StatusOK, n, "Note restored successfully")
}

func (s *Server) shareNote(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	g, err := s.notes.Share(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), req.Email, req.Permission)
	if err != nil {
		s.writeError(w, r, err, "share note failed")
		return
	}
	writeData(w, http.StatusCreated, g, "Note shared successfully")
}

func (s *Server) listShares(w http.ResponseWriter, r *http.Request) {
	grants, err := s.notes.ListShares(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err, "fetch shares failed")
		return
	}
	writeList(w, grants)
}

func (s *Server) addAttachment(w http.ResponseWriter, r *http.Request) {
	var in models.AttachmentInput
	if err := decode(r, &in); err != nil {
		writeBadJSON(w)
		return
	}

	up, err := s.attachments.Add(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err, "add attachment failed")
		return
	}
	writeData(w, http.StatusCreated, up, "Upload the file to uploadUrl")
}

func (s *Server) attachmentURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.attachments.DownloadURL(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentId"))
	if err != nil {
		s.writeError(w, r, err, "presign attachment failed")
		return
	}
	writeData(w, http.StatusOK, map[string]string{"url": url}, "")
}
