package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zeusync/worldpos/internal/core/models"
	"github.com/zeusync/worldpos/internal/core/observability/log"
	"github.com/zeusync/worldpos/internal/core/systems/movement"
	"github.com/zeusync/worldpos/internal/core/world"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.world.Snapshot())
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseEntityID(r.PathValue("id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorMessage{Error: err.Error()})
		return
	}
	state, ok := s.world.Snapshot().Entity(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, ErrorMessage{Error: world.ErrEntityNotFound.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseEntityID(r.PathValue("id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorMessage{Error: err.Error()})
		return
	}

	var controls movement.Controls
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&controls); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorMessage{Error: ErrInvalidMessage.Error()})
		return
	}

	if err = s.world.SetControls(id, controls); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, world.ErrEntityNotFound) {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, ErrorMessage{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write response", log.Error(err))
	}
}
