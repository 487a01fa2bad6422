// Package socketio provides the Socket.io server for triggering album
// shuffles and following the play queue.
package socketio

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/zishang520/socket.io/servers/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
	"github.com/edumarques81/shuffle-albums/internal/domain/shuffle"
)

// Watcher reports MPD subsystem changes.
type Watcher interface {
	Watch(subsystems ...string) (<-chan string, error)
}

// Server handles Socket.io connections and events.
type Server struct {
	io             *socket.Server
	shuffleService *shuffle.Service
	queue          queue.Reader
	debouncer      *QueueDebouncer
	mu             sync.RWMutex
	clients        map[string]*socket.Socket
}

// TrackView is one queue entry as pushed to clients.
type TrackView struct {
	Position int    `json:"position"`
	URI      string `json:"uri"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
}

// AlbumView is one contiguous album run in the queue.
type AlbumView struct {
	Album string `json:"album"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// QueueView is the payload of pushQueue.
type QueueView struct {
	Tracks []TrackView `json:"tracks"`
	Albums []AlbumView `json:"albums"`
}

// ShuffleResponse is the payload of pushShuffleAlbums and the REST shuffle endpoint.
type ShuffleResponse struct {
	OK     bool           `json:"ok"`
	Result shuffle.Result `json:"result"`
	Error  string         `json:"error,omitempty"`
}

// NewServer creates a new Socket.io server. debounce is the window used
// to collapse queue change notifications.
func NewServer(shuffleService *shuffle.Service, reader queue.Reader, debounce time.Duration) (*Server, error) {
	if shuffleService == nil || reader == nil {
		return nil, errors.New("shuffle service and queue reader are required")
	}

	opts := socket.DefaultServerOptions()
	opts.SetPingTimeout(20 * time.Second)
	opts.SetPingInterval(25 * time.Second)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	s := &Server{
		io:             socket.NewServer(nil, opts),
		shuffleService: shuffleService,
		queue:          reader,
		clients:        make(map[string]*socket.Socket),
	}
	s.debouncer = NewQueueDebouncer(debounce, s.BroadcastQueue)

	s.setupHandlers()

	return s, nil
}

// setupHandlers registers all Socket.io event handlers.
func (s *Server) setupHandlers() {
	s.io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		clientID := string(client.Id())

		log.Info().Str("id", clientID).Msg("Client connected")

		s.mu.Lock()
		s.clients[clientID] = client
		s.mu.Unlock()

		go s.pushQueue(client)

		client.On("disconnect", func(args ...any) {
			reason := ""
			if len(args) > 0 {
				if r, ok := args[0].(string); ok {
					reason = r
				}
			}
			log.Info().Str("id", clientID).Str("reason", reason).Msg("Client disconnected")

			s.mu.Lock()
			delete(s.clients, clientID)
			s.mu.Unlock()
		})

		client.On("getQueue", func(args ...any) {
			log.Debug().Str("id", clientID).Msg("getQueue")
			s.pushQueue(client)
		})

		client.On("shuffleAlbums", func(args ...any) {
			log.Debug().Str("id", clientID).Interface("data", args).Msg("shuffleAlbums")
			client.Emit("pushShuffleAlbums", s.HandleShuffle(args))
		})
	})
}

// HandleShuffle decodes an optional {dryRun: bool} payload and runs a shuffle.
func (s *Server) HandleShuffle(args []any) ShuffleResponse {
	opts, err := decodeOptions(args)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid shuffleAlbums payload")
		return ShuffleResponse{Error: err.Error()}
	}
	resp, _ := s.runShuffle(opts)
	return resp
}

func (s *Server) runShuffle(opts shuffle.Options) (ShuffleResponse, error) {
	result, err := s.shuffleService.Run(opts)
	if err != nil {
		log.Error().Err(err).Str("run_id", result.RunID).Msg("Shuffle failed")
		return ShuffleResponse{Result: result, Error: err.Error()}, err
	}
	return ShuffleResponse{OK: true, Result: result}, nil
}

// errorStatus maps a failed run to an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, queue.ErrConnection):
		return http.StatusBadGateway
	case errors.Is(err, queue.ErrAlbumNotFound):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeOptions reads shuffle options from the first event argument, if any.
func decodeOptions(args []any) (shuffle.Options, error) {
	var opts shuffle.Options
	if len(args) == 0 || args[0] == nil {
		return opts, nil
	}

	m, ok := args[0].(map[string]interface{})
	if !ok {
		return opts, errors.Newf("expected an object, got %T", args[0])
	}
	if err := mapstructure.Decode(m, &opts); err != nil {
		return opts, errors.Wrap(err, "failed to decode shuffle options")
	}
	return opts, nil
}

// QueueView reads the queue and builds the pushQueue payload.
func (s *Server) QueueView() (QueueView, error) {
	q, err := s.queue.Fetch()
	if err != nil {
		return QueueView{}, err
	}

	view := QueueView{
		Tracks: make([]TrackView, len(q)),
		Albums: []AlbumView{},
	}
	for i, item := range q {
		album, _ := item.Album()
		title := item.Tags["Title"]
		if title == "" {
			// Use filename if no title
			parts := strings.Split(item.Tags["file"], "/")
			title = parts[len(parts)-1]
		}
		view.Tracks[i] = TrackView{
			Position: i,
			URI:      item.Tags["file"],
			Title:    title,
			Artist:   item.Tags["Artist"],
			Album:    album,
		}
	}
	for _, g := range queue.Segment(q) {
		view.Albums = append(view.Albums, AlbumView{Album: g.Album, Start: g.Start, End: g.End})
	}

	return view, nil
}

// pushQueue sends the current queue to a client.
func (s *Server) pushQueue(client *socket.Socket) {
	view, err := s.QueueView()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get queue")
		return
	}
	client.Emit("pushQueue", view)
}

// BroadcastQueue sends the queue to all connected clients.
func (s *Server) BroadcastQueue() {
	view, err := s.QueueView()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get queue for broadcast")
		return
	}

	s.io.Emit("pushQueue", view)

	s.mu.RLock()
	clientCount := len(s.clients)
	s.mu.RUnlock()
	log.Debug().Int("tracks", len(view.Tracks)).Int("clients", clientCount).Msg("Broadcast queue")
}

// StartMPDWatcher watches the MPD playlist subsystem and broadcasts
// queue changes until ctx is cancelled.
func (s *Server) StartMPDWatcher(ctx context.Context, w Watcher) error {
	events, err := w.Watch("playlist")
	if err != nil {
		return err
	}

	go func() {
		log.Info().Msg("MPD watcher started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("MPD watcher stopped")
				return
			case subsystem, ok := <-events:
				if !ok {
					log.Warn().Msg("MPD watcher channel closed")
					return
				}
				log.Debug().Str("subsystem", subsystem).Msg("MPD subsystem changed")
				s.debouncer.Trigger(subsystem)
			}
		}
	}()

	return nil
}

// ShuffleHandler serves POST /api/v1/shuffle. The optional dryRun query
// parameter plans without moving.
func (s *Server) ShuffleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var opts shuffle.Options
		if v := r.URL.Query().Get("dryRun"); v != "" {
			dryRun, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "dryRun must be a boolean", http.StatusBadRequest)
				return
			}
			opts.DryRun = dryRun
		}

		resp, err := s.runShuffle(opts)
		status := http.StatusOK
		if err != nil {
			status = errorStatus(err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}

// ServeHTTP implements http.Handler for the Socket.io server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.io.ServeHandler(nil).ServeHTTP(w, r)
}

// Close closes the Socket.io server.
func (s *Server) Close() error {
	s.debouncer.Stop()
	s.io.Close(nil)
	return nil
}
