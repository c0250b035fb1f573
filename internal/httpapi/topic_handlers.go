package httpapi

import (
	"net/http"

	"github.com/speakcoach/speakcoach/internal/topics"
)

func (r *Router) handleListTopics(w http.ResponseWriter, _ *http.Request) {
	all := topics.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"topics": all,
		"count":  len(all),
	})
}

func (r *Router) handleGetTopic(w http.ResponseWriter, req *http.Request) {
	id := req.PathValue("id")

	topic, ok := topics.Find(id)
	if !ok {
		http.Error(w, `{"error": "topic not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, topic)
}
