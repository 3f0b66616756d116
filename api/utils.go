package api

import (
	"encoding/json"
	"log"
	"net/http"

	"retail-pricing/database"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondWithDomainError maps repository errors onto HTTP statuses.
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case database.IsNotFound(err):
		respondWithError(w, http.StatusNotFound, err.Error())
	case database.IsValidation(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("❌ Internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
