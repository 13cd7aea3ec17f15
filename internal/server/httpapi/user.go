package httpapi

import "net/http"

type updateProfileRequest struct {
	Username string `json:"username"`
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.users.Profile(r.Context(), userID(r.Context()))
	if err != nil {
		s.writeError(w, r, err, "fetch profile failed")
		return
	}
	writeData(w, http.StatusOK, p, "")
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	u, err := s.users.UpdateProfile(r.Context(), userID(r.Context()), req.Username)
	if err != nil {
		s.writeError(w, r, err, "update profile failed")
		return
	}
	writeData(w, http.StatusOK, u, "Profile updated successfully")
}
