package handlers

import (
	"net/http"
	"strconv"
)

type sttRequest struct {
	AudioBase64 string `json:"audio_base64"`
	MimeType    string `json:"mime_type"`
}

// Speak streams MP3 audio for ?text= in the optional ?voice=.
func (a *App) Speak(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	audio, err := a.Voice.Speak(r.Context(), q.Get("text"), q.Get("voice"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

func (a *App) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req sttRequest
	if !a.decode(w, r, &req) {
		return
	}
	audio, err := decodeBase64(req.AudioBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "audio_base64 required")
		return
	}
	text, err := a.Voice.Transcribe(r.Context(), audio, req.MimeType)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"text": text})
}
