package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/speakcoach/speakcoach/internal/eventlog"
	"github.com/speakcoach/speakcoach/internal/llm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Fixed prompts shown around the recording lifecycle.
const (
	promptStartSpeaking = "Start speaking, and I'll coach you as you go..."
	promptNotSupported  = "Speech recognition is not available in your browser. Recording will continue without live prompts."
	promptStopped       = "Recording stopped. Your video is downloading."
)

// promptTimeout bounds one prompt generation round-trip.
const promptTimeout = 15 * time.Second

// Client -> server session messages.
type clientMessage struct {
	Event string `json:"event"` // "start", "chunk", "utterance", "stop"
	Topic string `json:"topic,omitempty"`
	// Recognizer reports whether the browser has a speech recognizer.
	// Absent means available.
	Recognizer *bool        `json:"recognizer,omitempty"`
	Media      *clientMedia `json:"media,omitempty"`
	Text       string       `json:"text,omitempty"`
}

type clientMedia struct {
	Payload string `json:"payload"` // Base64 recorded media chunk
}

// Server -> client session messages. The assembled recording is sent
// separately as one binary frame.
type serverMessage struct {
	Event  string `json:"event"` // "state", "prompt"
	State  string `json:"state,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Seq    int    `json:"seq,omitempty"`
}

// coachSession manages one start-to-stop coaching session over a WebSocket.
// The browser owns the media devices and the recognizer; it forwards their
// events here, and this session owns the lifecycle state.
type coachSession struct {
	id string

	conn   *websocket.Conn
	connMu sync.Mutex

	llm      llm.Client
	eventLog *eventlog.Logger
	logger   *log.Logger

	// Lifecycle state, guarded by stateMu because prompt generations
	// complete on their own goroutines.
	stateMu      sync.Mutex
	recording    bool
	topic        string
	recognizerOK bool
	nextSeq      int // sequence number handed to the next utterance
	appliedSeq   int // highest sequence whose prompt was applied
	epoch        int // bumped on every start and stop; late responses from another epoch are dropped

	// Recording data, touched only by the read loop.
	transcript strings.Builder
	chunks     [][]byte

	ctx    context.Context
	cancel context.CancelFunc
}

func (r *Router) handleSessionWS(w http.ResponseWriter, req *http.Request) {
	if !r.sessions.Add() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer r.sessions.Done()

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Printf("session_ws: upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(req.Context())

	session := &coachSession{
		id:       uuid.NewString(),
		conn:     conn,
		llm:      r.llm,
		eventLog: r.eventLog,
		logger:   r.logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	r.logger.Printf("session_ws: session %s connected", session.id)
	session.run()
}

func (s *coachSession) run() {
	defer s.cleanup()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("session_ws: session %s closed", s.id)
			} else {
				s.logger.Printf("session_ws: session %s read error: %v", s.id, err)
			}
			return
		}

		var cm clientMessage
		if err := json.Unmarshal(msg, &cm); err != nil {
			s.logger.Printf("session_ws: session %s: failed to parse message: %v", s.id, err)
			continue
		}

		switch cm.Event {
		case "start":
			s.handleStart(&cm)
		case "chunk":
			s.handleChunk(cm.Media)
		case "utterance":
			s.handleUtterance(cm.Text)
		case "stop":
			s.handleStop()
		default:
			s.logger.Printf("session_ws: session %s: unknown event %q", s.id, cm.Event)
		}
	}
}

// handleStart transitions Idle -> Recording and resets per-recording state.
// A start while already recording is a no-op.
func (s *coachSession) handleStart(cm *clientMessage) {
	s.stateMu.Lock()
	if s.recording {
		s.stateMu.Unlock()
		return
	}
	s.recording = true
	s.topic = cm.Topic
	s.recognizerOK = cm.Recognizer == nil || *cm.Recognizer
	s.nextSeq = 0
	s.appliedSeq = 0
	s.epoch++
	recognizerOK := s.recognizerOK
	s.stateMu.Unlock()

	s.transcript.Reset()
	s.chunks = nil

	prompt := promptStartSpeaking
	if !recognizerOK {
		prompt = promptNotSupported
	}

	s.eventLog.Log(s.id, eventlog.EventSessionStarted, map[string]any{
		"topic":      cm.Topic,
		"recognizer": recognizerOK,
	})

	if err := s.send(serverMessage{Event: "state", State: "recording", Prompt: prompt}); err != nil {
		s.logger.Printf("session_ws: session %s: failed to send state: %v", s.id, err)
	}
}

// handleChunk appends one recorded media chunk. Chunks arriving while idle
// are dropped.
func (s *coachSession) handleChunk(media *clientMedia) {
	if media == nil {
		return
	}

	s.stateMu.Lock()
	recording := s.recording
	s.stateMu.Unlock()
	if !recording {
		return
	}

	data, err := base64.StdEncoding.DecodeString(media.Payload)
	if err != nil {
		s.logger.Printf("session_ws: session %s: failed to decode chunk: %v", s.id, err)
		return
	}
	if len(data) == 0 {
		return
	}

	s.chunks = append(s.chunks, data)
}

// handleUtterance records one finalized recognizer result and fires an
// asynchronous prompt generation for it. Generations are independent; a
// response that would overwrite a newer prompt, or that belongs to an
// earlier recording, is dropped by sequence number and recording epoch.
func (s *coachSession) handleUtterance(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.stateMu.Lock()
	if !s.recording || !s.recognizerOK {
		s.stateMu.Unlock()
		return
	}
	s.nextSeq++
	seq := s.nextSeq
	topic := s.topic
	epoch := s.epoch
	s.stateMu.Unlock()

	if s.transcript.Len() > 0 {
		s.transcript.WriteString(" ")
	}
	s.transcript.WriteString(text)

	s.eventLog.Log(s.id, eventlog.EventUtteranceFinal, map[string]any{
		"seq":   seq,
		"chars": len(text),
	})

	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, promptTimeout)
		defer cancel()

		prompt, err := s.llm.GeneratePrompt(ctx, text, topic)
		if err != nil {
			s.logger.Printf("session_ws: session %s: prompt generation failed: %v", s.id, err)
			s.eventLog.Log(s.id, eventlog.EventPromptError, map[string]any{"seq": seq})
			return
		}

		if !s.deliverPrompt(prompt, seq, epoch) {
			s.eventLog.Log(s.id, eventlog.EventPromptStale, map[string]any{"seq": seq})
			return
		}

		s.eventLog.Log(s.id, eventlog.EventPromptGenerated, map[string]any{"seq": seq})
	}()
}

// applyPrompt reports whether a completed generation may still update the
// displayed prompt. Responses from another recording (epoch mismatch),
// arriving after stop, or behind an already-applied newer response are
// dropped. Callers must hold stateMu.
func (s *coachSession) applyPrompt(seq, epoch int) bool {
	if !s.recording || epoch != s.epoch {
		return false
	}
	if seq < s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	return true
}

// deliverPrompt applies the guard and writes the prompt frame while still
// holding stateMu, so a response passing the guard cannot be overtaken by a
// newer one before its frame goes out.
func (s *coachSession) deliverPrompt(prompt string, seq, epoch int) bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if !s.applyPrompt(seq, epoch) {
		return false
	}

	if err := s.send(serverMessage{Event: "prompt", Prompt: prompt, Seq: seq}); err != nil {
		s.logger.Printf("session_ws: session %s: failed to send prompt: %v", s.id, err)
	}
	return true
}

// handleStop transitions Recording -> Idle, assembles the collected chunks
// into one recording, and sends it as a binary frame. Stopping while idle is
// a no-op.
func (s *coachSession) handleStop() {
	s.stateMu.Lock()
	if !s.recording {
		s.stateMu.Unlock()
		return
	}
	s.recording = false
	s.epoch++
	s.stateMu.Unlock()

	if err := s.send(serverMessage{Event: "state", State: "idle", Prompt: promptStopped}); err != nil {
		s.logger.Printf("session_ws: session %s: failed to send state: %v", s.id, err)
	}

	var total int
	for _, c := range s.chunks {
		total += len(c)
	}

	if total > 0 {
		recording := make([]byte, 0, total)
		for _, c := range s.chunks {
			recording = append(recording, c...)
		}
		if err := s.sendBinary(recording); err != nil {
			s.logger.Printf("session_ws: session %s: failed to send recording: %v", s.id, err)
		}
	}

	s.eventLog.Log(s.id, eventlog.EventSessionStopped, map[string]any{
		"chunks":         len(s.chunks),
		"bytes":          total,
		"transcript_len": s.transcript.Len(),
	})

	// Chunks are not retained past the download.
	s.chunks = nil
}

func (s *coachSession) send(msg serverMessage) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *coachSession) sendBinary(data []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, data)
}

// cleanup releases everything the session holds, on every exit path.
func (s *coachSession) cleanup() {
	s.cancel()

	s.stateMu.Lock()
	s.recording = false
	s.stateMu.Unlock()
	s.chunks = nil

	s.eventLog.Log(s.id, eventlog.EventSessionClosed, nil)
	_ = s.conn.Close()
}
