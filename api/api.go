package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/race-trainer/api/model"
	"github.com/a-bouts/race-trainer/decisionlog"
	"github.com/a-bouts/race-trainer/flow"
	"github.com/a-bouts/race-trainer/location"
	"github.com/a-bouts/race-trainer/scenario"
	"github.com/a-bouts/race-trainer/sim"
	"github.com/a-bouts/race-trainer/simerr"
)

const (
	// maxRuns is the number of finished runs kept for inspection.
	maxRuns = 32
	// defaultRunSeconds caps runs of scenarios without a limit.
	defaultRunSeconds = 3 * 3600
)

type server struct {
	cpuprofile bool
	library    *scenario.Library
	notifier   sim.Notifier

	lock   sync.RWMutex
	nextID int
	runs   map[int]*sim.Simulation
	order  []int
}

// InitServer returns the router with its middlewares. notifier may be nil.
func InitServer(cpuprofile bool, library *scenario.Library, notifier sim.Notifier) http.Handler {

	router := mux.NewRouter().StrictSlash(true)

	s := &server{
		cpuprofile: cpuprofile,
		library:    library,
		notifier:   notifier,
		runs:       make(map[int]*sim.Simulation),
	}

	api := router.PathPrefix("/").Subrouter()
	api.HandleFunc("/trainer/-/healthz", s.healthz).Methods(http.MethodGet)

	apiV1 := router.PathPrefix("/trainer/api/v1").Subrouter()
	apiV1.HandleFunc("/scenarios", s.scenarios).Methods(http.MethodGet)
	apiV1.HandleFunc("/scenarios/{name}", s.scenario).Methods(http.MethodGet)
	apiV1.HandleFunc("/scenarios/-/reload", s.reload).Methods(http.MethodPost)
	apiV1.HandleFunc("/runs", s.run).Methods(http.MethodPost)
	apiV1.HandleFunc("/runs/{id}", s.snapshot).Methods(http.MethodGet)
	apiV1.HandleFunc("/runs/{id}/decisions", s.decisions).Methods(http.MethodGet)
	apiV1.HandleFunc("/runs/{id}/{flow:wind|water}/{x}/{y}", s.flow).Methods(http.MethodGet)

	var h http.Handler = router
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.CombinedLoggingHandler(log.StandardLogger().Writer(), h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()), handlers.PrintRecoveryStack(true))(h)
	return h
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.Error{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	type health struct {
		Status string `json:"status"`
	}

	writeJSON(w, health{Status: "Ok"})
}

func (s *server) scenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.library.Names())
}

func (s *server) scenario(w http.ResponseWriter, r *http.Request) {
	cfg, found := s.library.Get(mux.Vars(r)["name"])
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, cfg)
}

func (s *server) reload(w http.ResponseWriter, r *http.Request) {
	s.library.Reload()
	writeJSON(w, s.library.Names())
}

func (s *server) run(w http.ResponseWriter, req *http.Request) {
	if s.cpuprofile {
		defer profile.Start().Stop()
	}

	fields := log.Fields{
		"action": "run",
	}
	if ip, err := getIp(req); err == nil {
		fields["IP"] = ip
	}
	requestLogger := log.WithFields(fields)

	var r model.Run
	if err := json.NewDecoder(req.Body).Decode(&r); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg, found := s.library.Get(r.Scenario)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown scenario %q", r.Scenario))
		return
	}
	if r.Seconds > 0 {
		cfg.Seconds = r.Seconds
	}
	if cfg.Seconds <= 0 {
		cfg.Seconds = defaultRunSeconds
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	for i := range cfg.Boats {
		if t, found := r.Tactics[cfg.Boats[i].Name]; found {
			cfg.Boats[i].Tactics = t
		}
	}

	requestLogger.Infof("Run '%s' for %ds with seed %d", cfg.Name, cfg.Seconds, cfg.Seed)

	start := time.Now()

	simulation, err := s.simulate(req.Context(), cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if simerr.IsConfig(err) {
			status = http.StatusBadRequest
		}
		requestLogger.WithError(err).Warn("Run failed")
		writeError(w, status, err)
		return
	}

	took := time.Since(start)
	requestLogger.Infof("Run took %s (%d seconds simulated)", took.String(), simulation.Second())

	writeJSON(w, model.RunResult{ID: s.store(simulation), Took: took.String(), Snapshot: simulation.Snapshot()})
}

func (s *server) simulate(ctx context.Context, cfg scenario.Config) (*sim.Simulation, error) {
	sc, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	var opts []sim.Option
	if s.notifier != nil {
		opts = append(opts, sim.WithNotifier(s.notifier))
	}
	simulation, err := sim.New(sc, opts...)
	if err != nil {
		return nil, err
	}
	defer simulation.Close()

	if err := sim.RunFor(ctx, simulation, cfg.Seconds); err != nil {
		return nil, err
	}
	return simulation, nil
}

func (s *server) store(simulation *sim.Simulation) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	s.runs[s.nextID] = simulation
	s.order = append(s.order, s.nextID)
	if len(s.order) > maxRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return s.nextID
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*sim.Simulation, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	simulation, found := s.runs[id]
	if !found {
		w.WriteHeader(http.StatusNotFound)
	}
	return simulation, found
}

func (s *server) snapshot(w http.ResponseWriter, r *http.Request) {
	simulation, found := s.lookup(w, r)
	if !found {
		return
	}
	writeJSON(w, simulation.Snapshot())
}

func (s *server) decisions(w http.ResponseWriter, r *http.Request) {
	simulation, found := s.lookup(w, r)
	if !found {
		return
	}
	records := simulation.Decisions(r.URL.Query().Get("boat"))
	if records == nil {
		records = []decisionlog.Record{}
	}
	writeJSON(w, records)
}

func (s *server) flow(w http.ResponseWriter, r *http.Request) {
	simulation, found := s.lookup(w, r)
	if !found {
		return
	}

	x, err := strconv.ParseFloat(mux.Vars(r)["x"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	y, err := strconv.ParseFloat(mux.Vars(r)["y"], 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var f *flow.Field
	switch mux.Vars(r)["flow"] {
	case "wind":
		f = simulation.Scenario().Wind
	default:
		f = simulation.Scenario().Water
	}

	l := location.Location{X: x, Y: y}
	p, err := f.Flow(l)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	log.Debugf("%s %v : %v %.1f kt", f.Name(), l, p.Angle, p.Magnitude)

	writeJSON(w, model.Flow{Angle: p.Angle.Degrees(), Speed: p.Magnitude})
}

func getIp(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	splitIps := strings.Split(ips, ",")
	for _, ip := range splitIps {
		netIP := net.ParseIP(strings.TrimSpace(ip))
		if netIP != nil {
			return strings.TrimSpace(ip), nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	netIP = net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}
	return "", fmt.Errorf("No valid ip found")
}
