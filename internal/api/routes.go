// Route registration and go-chi router setup. Public routes (/health,
// /auth/login, the static front-end) vs /api routes, which take the bearer
// JWT gate when auth is configured.
package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mercurylabs/mercury/internal/api/handlers"
	apmiddleware "github.com/mercurylabs/mercury/internal/api/middleware"
	"github.com/mercurylabs/mercury/internal/domain/agent"
	"github.com/mercurylabs/mercury/internal/domain/audio"
	"github.com/mercurylabs/mercury/internal/domain/audit"
	domainauth "github.com/mercurylabs/mercury/internal/domain/auth"
	"github.com/mercurylabs/mercury/internal/domain/chat"
	"github.com/mercurylabs/mercury/internal/domain/upload"
	"github.com/mercurylabs/mercury/internal/infra/config"
	"github.com/mercurylabs/mercury/internal/infra/eventbus"
	"github.com/mercurylabs/mercury/internal/infra/llm"
	"github.com/mercurylabs/mercury/internal/infra/toolexec"
)

// NewRouter wires the domain services from cfg and db and registers all
// routes. The audit recorder goroutines run until ctx is cancelled.
func NewRouter(ctx context.Context, cfg config.Config, db *sql.DB) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	bus := eventbus.New()
	audit.NewRecorder(audit.NewService(db)).Start(ctx, bus)

	exec := toolexec.ExecRunner{}

	registry := llm.NewRegistry(cfg.NVIDIAAPIKey, cfg.OpenAIAPIKey, markdownHints(cfg))
	agentRunner := agent.NewRunner(cfg.Agent.Command, cfg.Agent.ConfigFile, exec)
	dispatcher := chat.NewDispatcher(registry, llm.NewClient(), agentRunner, bus)

	transcriber := audio.NewTranscriber(audio.TranscriberConfig{
		Command:      cfg.Audio.ASRCommand,
		Script:       cfg.Audio.ASRScript,
		Server:       cfg.Audio.ASRServer,
		FunctionID:   cfg.Audio.ASRFunctionID,
		LanguageCode: cfg.Audio.LanguageCode,
		APIKey:       cfg.NVIDIAAPIKey,
	}, exec)
	recorder := audio.NewRecorder(audio.RecorderConfig{
		Command:      cfg.Audio.CaptureCommand,
		File:         cfg.Audio.CaptureFile,
		SampleRateHz: cfg.Audio.SampleRateHz,
		SettleDelay:  time.Duration(cfg.Audio.SettleDelayMS) * time.Millisecond,
	}, transcriber.TranscribeFile)
	synthesizer := audio.NewSynthesizer(audio.SynthesizerConfig{
		Command:       cfg.Audio.TTSCommand,
		Script:        cfg.Audio.TTSScript,
		Server:        cfg.Audio.TTSServer,
		LanguageCode:  cfg.Audio.LanguageCode,
		DefaultVoice:  cfg.Audio.TTSVoice,
		SampleRateHz:  cfg.Audio.TTSSampleRateHz,
		ConcatCommand: cfg.Audio.ConcatCommand,
	}, exec)

	chatHandler := handlers.NewChatHandler(dispatcher)
	audioHandler := handlers.NewAudioHandler(recorder, transcriber, synthesizer, bus)
	uploadHandler := handlers.NewUploadHandler(upload.NewService(cfg.Server.UploadsDir, db, bus))
	authHandler := handlers.NewAuthHandler(domainauth.NewService(
		cfg.Auth.JWTSecret, cfg.Auth.PasswordHash,
		time.Duration(cfg.Auth.TokenTTLHrs)*time.Hour,
	))

	// Health check, unauthenticated, used by probes.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	r.Post("/auth/login", authHandler.Login)

	r.Route("/api", func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(apmiddleware.Auth([]byte(cfg.Auth.JWTSecret)))
		}

		r.Post("/chat", chatHandler.Chat)

		r.Post("/start-recording", audioHandler.StartRecording)
		r.Post("/stop-recording", audioHandler.StopRecording)
		r.Post("/transcribe", audioHandler.Transcribe)
		r.Post("/tts", audioHandler.TTS)

		r.Post("/upload/document", uploadHandler.Document)
		r.Post("/upload/image", uploadHandler.Image)
	})

	// Static front-end.
	r.Handle("/*", http.FileServer(http.Dir(cfg.Server.PublicDir)))

	return r
}

// markdownHints converts the per-family config flags into the registry's
// hint map.
func markdownHints(cfg config.Config) map[llm.Family]bool {
	hints := make(map[llm.Family]bool, len(cfg.Families))
	for name, fc := range cfg.Families {
		if fc.MarkdownHint {
			hints[llm.Family(name)] = true
		}
	}
	return hints
}
