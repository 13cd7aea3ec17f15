package httpapi

import (
	"net/http"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	res, err := s.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err, "registration failed")
		return
	}
	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	writeData(w, http.StatusCreated, res, "User registered successfully")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "login failed")
		return
	}
	writeData(w, http.StatusOK, res, "Login successful")
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err, "token refresh failed")
		return
	}
	writeData(w, http.StatusOK, pair, "")
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeError(w, r, err, "logout failed")
		return
	}
	writeMessage(w, http.StatusOK, true, "Logged out")
}
