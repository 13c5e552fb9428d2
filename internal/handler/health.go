package handler

import "net/http"

// HandleHealthz reports process liveness for load balancers and uptime
// checks. It deliberately does not touch the database.
func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
