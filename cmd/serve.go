package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/grader"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/score"
	"github.com/jsphweid/chorale/session"
	"github.com/jsphweid/chorale/timeline"
	"github.com/jsphweid/chorale/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	serveCmd.Flags().String("port", "", "listen port (server.port)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves grading sessions over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := conf.Viper().BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
			return err
		}
		if err := conf.Refresh(); err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()
		return serve(ctx, conf)
	},
}

type server struct {
	store *session.Store
}

// newLimiter returns nil when limiting is disabled.
func newLimiter(c config.ServerConfig) *rate.Limiter {
	if c.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimit), util.Max(c.Burst, 1))
}

// NewRouter wires the session API. limiter may be nil and maxBody <= 0 leaves
// request bodies unbounded.
func NewRouter(store *session.Store, limiter *rate.Limiter, maxBody int64, log *zap.Logger) http.Handler {
	s := &server{store: store}

	router := mux.NewRouter().StrictSlash(true)
	router.Use(requestLogger(log))
	if limiter != nil {
		router.Use(rateLimit(limiter))
	}
	if maxBody > 0 {
		router.Use(limitBody(maxBody))
	}
	router.HandleFunc("/sessions", s.handleCreate).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.handleStatus).Methods("GET")
	router.HandleFunc("/sessions/{id}", s.handleDelete).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/note-on", s.handleNoteOn).Methods("POST")
	router.HandleFunc("/sessions/{id}/note-off", s.handleNoteOff).Methods("POST")

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func serve(ctx context.Context, conf *config.Loader) error {
	c := conf.Get().Server
	limiter := newLimiter(c)
	if limiter != nil {
		conf.Watch(log, func(next config.Config) {
			limit := rate.Limit(next.Server.RateLimit)
			if limit <= 0 {
				limit = rate.Inf
			}
			limiter.SetLimit(limit)
			limiter.SetBurst(util.Max(next.Server.Burst, 1))
		})
	}

	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           NewRouter(session.NewStore(log), limiter, c.MaxBody, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("serving", zap.String("addr", srv.Addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var input model.CreateSessionRequestBody
	if !decodeBody(w, r, &input) {
		return
	}
	if len(input.Score) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("score is required"))
		return
	}
	sc, err := score.Parse(input.Score, score.JSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess := s.store.Create(sc, timeline.Options{
		StartMeasure: input.StartMeasure,
		MaxMeasures:  input.MaxMeasures,
		SelectVoices: input.Voices,
	})
	var res model.CreateSessionResponse
	sess.Do(func(g *grader.Grader) {
		res = model.CreateSessionResponse{
			ID:      sess.ID,
			Windows: g.WindowCount(),
			Events:  g.Index().NumEvents(),
		}
	})
	writeJSON(w, http.StatusCreated, res)
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := mux.Vars(r)["id"]
	sess, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no session %s", id))
	}
	return sess, ok
}

func decodePitch(w http.ResponseWriter, r *http.Request) (int, bool) {
	var input model.NoteRequestBody
	if !decodeBody(w, r, &input) {
		return 0, false
	}
	if input.Pitch < 0 || input.Pitch > 127 {
		writeError(w, http.StatusBadRequest, errors.Errorf("pitch %d out of MIDI range", input.Pitch))
		return 0, false
	}
	return input.Pitch, true
}

func (s *server) handleNoteOn(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	pitch, ok := decodePitch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.NoteOn(pitch))
}

func (s *server) handleNoteOff(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	pitch, ok := decodePitch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.NoteOff(pitch))
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Status())
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, errors.Errorf("no session %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("request body exceeds %d bytes", tooLarge.Limit))
	} else {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not decode request body"))
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}
