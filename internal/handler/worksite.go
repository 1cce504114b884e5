package handler

import "net/http"

// SearchWorksites handles GET /worksites?query=.
// Returns autocomplete tokens ("<id> | <name>") for the validation form.
func (s *Server) SearchWorksites(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("query parameter is required"))
		return
	}

	tokens, err := s.worksites.Search(r.Context(), query)
	if err != nil {
		respondError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": tokens})
}
