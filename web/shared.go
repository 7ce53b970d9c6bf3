package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"inkwell/custom_errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("error encoding JSON:", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeMappedError translates the error taxonomy to HTTP statuses:
// validation 400, missing resource 404, provider failures 502, anything
// else 500 with the detail kept out of the response body.
func writeMappedError(w http.ResponseWriter, err error) {
	var verr *custom_errors.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr)
		return
	}
	if custom_errors.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	var perr *custom_errors.ProviderError
	if errors.As(err, &perr) {
		writeError(w, http.StatusBadGateway, perr)
		return
	}

	log.Println("internal error:", err)
	writeError(w, http.StatusInternalServerError, fmt.Errorf("internal error"))
}

func readJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func printBanner(addr string) {
	width := 46
	fmt.Println("##############################################")
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Printf("# %-*s #\n", width-4, "Inkwell Jobs Started")
	fmt.Printf("# %-*s #\n", width-4, fmt.Sprintf("API server running on %s", addr))
	fmt.Printf("# %-*s #\n", width-4, "")
	fmt.Println("##############################################")
}
