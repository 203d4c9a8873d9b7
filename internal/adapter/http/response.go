package http

import (
	"encoding/json"
	"net/http"
)

func writeSuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]interface{}{
		"status":  true,
		"message": message,
		"data":    data,
	}

	json.NewEncoder(w).Encode(response)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]interface{}{
		"status":  false,
		"message": message,
		"data":    nil,
		"code":    code,
	}

	json.NewEncoder(w).Encode(response)
}
