package httpapi

import (
	"encoding/json"
	"net/http"
)

type generatePromptRequest struct {
	Transcription string `json:"transcription"`
	Topic         string `json:"topic"`
}

// handleGeneratePrompt forwards one transcript increment to the prompt
// service and returns the generated coaching prompt.
func (r *Router) handleGeneratePrompt(w http.ResponseWriter, req *http.Request) {
	var body generatePromptRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, `{"error": "Missing transcription or topic"}`, http.StatusBadRequest)
		return
	}

	if body.Transcription == "" || body.Topic == "" {
		http.Error(w, `{"error": "Missing transcription or topic"}`, http.StatusBadRequest)
		return
	}

	prompt, err := r.llm.GeneratePrompt(req.Context(), body.Transcription, body.Topic)
	if err != nil {
		// The caller only ever sees the generic message; details go to
		// the log and Sentry.
		r.logger.Printf("generate-prompt: llm call failed: %v", err)
		captureError(req, err, "generate-prompt: llm call failed")
		http.Error(w, `{"error": "Failed to generate prompt"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}
