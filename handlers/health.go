package handlers

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
}

func Health(w http.ResponseWriter, r *http.Request) Result {
	return Ok(HealthResponse{Status: "ok"})
}
