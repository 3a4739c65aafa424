// HTTP handlers for the audio pipeline: microphone capture, file
// transcription, and text-to-speech.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mercurylabs/mercury/internal/domain/audio"
	"github.com/mercurylabs/mercury/internal/infra/eventbus"
)

// maxAudioUpload bounds the multipart form for POST /api/transcribe.
const maxAudioUpload = 50 << 20 // 50 MiB

// CaptureService is the single-slot recorder (domain/audio.Recorder).
type CaptureService interface {
	Start() error
	Stop(ctx context.Context) (string, error)
}

// TranscribeService converts a wav file to text (domain/audio.Transcriber).
type TranscribeService interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}

// SpeechService renders text to wav bytes (domain/audio.Synthesizer).
type SpeechService interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// AudioHandler handles the /api recording, transcription, and TTS endpoints.
type AudioHandler struct {
	recorder    CaptureService
	transcriber TranscribeService
	speech      SpeechService
	bus         eventbus.EventBus // may be nil
}

func NewAudioHandler(recorder CaptureService, transcriber TranscribeService, speech SpeechService, bus eventbus.EventBus) *AudioHandler {
	return &AudioHandler{recorder: recorder, transcriber: transcriber, speech: speech, bus: bus}
}

// StartRecordingResponse is the response body for POST /api/start-recording.
type StartRecordingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StopRecordingResponse is the response body for POST /api/stop-recording.
type StopRecordingResponse struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription"`
}

// TranscribeResponse is the response body for POST /api/transcribe.
type TranscribeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// StartRecording handles POST /api/start-recording. An already-running
// capture is replaced, so this always leaves exactly one capture active.
func (h *AudioHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	if err := h.recorder.Start(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start recording")
		return
	}
	writeJSON(w, http.StatusOK, StartRecordingResponse{Success: true, Message: "recording started"})
}

// StopRecording handles POST /api/stop-recording: stop capture, transcribe,
// return the text.
//
// Response codes:
//   - 200 OK: transcription
//   - 500 Internal Server Error: no capture file, or transcription tool failure
func (h *AudioHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	text, err := h.recorder.Stop(r.Context())
	if err != nil {
		writeTranscriptionError(w, err)
		return
	}

	h.publish(eventbus.TopicRecordingTranscribed, map[string]string{"source": "microphone"})
	writeJSON(w, http.StatusOK, StopRecordingResponse{Success: true, Transcription: text})
}

// Transcribe handles POST /api/transcribe: a multipart "audio" file is
// written to a temp path, transcribed, and removed.
func (h *AudioHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), "transcribe_"+uuid.NewString()+filepath.Ext(header.Filename))
	if err := saveTemp(tempPath, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store audio file")
		return
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil {
			log.Printf("api: remove temp audio %s: %v", tempPath, err)
		}
	}()

	text, err := h.transcriber.TranscribeFile(r.Context(), tempPath)
	if err != nil {
		writeTranscriptionError(w, err)
		return
	}

	h.publish(eventbus.TopicRecordingTranscribed, map[string]string{"source": "upload", "name": header.Filename})
	writeJSON(w, http.StatusOK, TranscribeResponse{Success: true, Text: text})
}

// TTSRequest is the request body for POST /api/tts.
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// TTS handles POST /api/tts. On success the response body is the combined
// wav; errors come back as JSON with the tool's stderr in details.
func (h *AudioHandler) TTS(w http.ResponseWriter, r *http.Request) {
	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.speech.Synthesize(r.Context(), req.Text, req.Voice)
	if err != nil {
		var synthErr *audio.SynthesisError
		if errors.As(err, &synthErr) {
			writeErrorDetails(w, http.StatusInternalServerError, "speech synthesis failed", synthErr.Stderr)
			return
		}
		writeError(w, http.StatusInternalServerError, "speech synthesis failed")
		return
	}

	h.publish(eventbus.TopicTTSSynthesized, map[string]string{"voice": req.Voice})
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}

func (h *AudioHandler) publish(topic string, payload map[string]string) {
	if h.bus != nil {
		h.bus.Publish(topic, payload)
	}
}

func writeTranscriptionError(w http.ResponseWriter, err error) {
	var trErr *audio.TranscriptionError
	switch {
	case errors.Is(err, audio.ErrRecordingNotFound):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &trErr):
		writeErrorDetails(w, http.StatusInternalServerError, "transcription failed", trErr.Stderr)
	default:
		writeError(w, http.StatusInternalServerError, "transcription failed")
	}
}

func saveTemp(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
