// Package fakeapi is an in-process PortfolioPulse backend.
//
// It serves the same routes as the real backend from in-memory data, and can
// be told to fail, to answer slowly or to run its update in the background.
// It backs the tests and the "pulse mock" command.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/etnz/pulse"
	"go.uber.org/zap"
)

// Server is a fake backend. It is safe for concurrent use; its behavior is
// changed through its methods, even while requests are in flight.
type Server struct {
	mu sync.Mutex

	snapshot   pulse.Snapshot
	positions  []pulse.AssetPosition
	lastUpdate string
	accounts   map[string]pulse.Credentials // path -> accepted credentials
	settings   map[string]any               // editable backend configuration
	columns    []string
	preview    []map[string]any

	failures map[string]int    // path -> HTTP status to answer with
	business map[string]string // path -> business error message
	bodies   map[string]string // path -> raw 200 body
	delay    time.Duration
	release  chan struct{} // when set, snapshot requests wait for it

	// update simulation
	steps     []string
	stepDelay time.Duration
	updating  bool
	progress  int
	current   string
	logs      []pulse.RemoteLogEntry
	onUpdate  func(*Server)

	hits map[string]int

	clock  func() time.Time
	logger *zap.Logger
}

// New returns a server loaded with the sample portfolio.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		accounts: map[string]pulse.Credentials{},
		failures: map[string]int{},
		business: map[string]string{},
		bodies:   map[string]string{},
		hits:     map[string]int{},
		steps:    append([]string(nil), pulse.DefaultStepNames...),
		clock:    time.Now,
		logger:   logger,
	}
	s.snapshot = Sample()
	s.positions = SamplePositions()
	s.lastUpdate = "2024-05-17 18:30:00"
	s.settings = map[string]any{
		"excel_file_path":            "carteira.xlsx",
		"excel_positions_sheet_name": "Posições",
	}
	s.columns = []string{"Ativo", "Quantidade", "PrecoMedio", "PrecoAtual"}
	s.preview = []map[string]any{
		{"Ativo": "PETR4", "Quantidade": 100, "PrecoMedio": 25.0, "PrecoAtual": 27.5},
		{"Ativo": "VALE3", "Quantidade": 50, "PrecoMedio": 62.0, "PrecoAtual": 60.0},
		{"Ativo": "ITUB4", "Quantidade": 200, "PrecoMedio": 25.0, "PrecoAtual": nil},
	}
	return s
}

// Sample returns the sample snapshot.
func Sample() pulse.Snapshot {
	assets := []pulse.AssetPosition{
		{
			Ativo:         "PETR4",
			Quantidade:    pulse.Q(100),
			PrecoMedio:    pulse.M(25.0),
			PrecoAtual:    pulse.M(27.5),
			ValorAtual:    pulse.M(2750.0),
			LucroPrejuizo: pulse.M(250.0),
			ROIPercentual: pulse.P(10.0),
		},
		{
			Ativo:         "VALE3",
			Quantidade:    pulse.Q(50),
			PrecoMedio:    pulse.M(62.0),
			PrecoAtual:    pulse.M(60.0),
			ValorAtual:    pulse.M(3000.0),
			LucroPrejuizo: pulse.M(-100.0),
			ROIPercentual: pulse.P(-3.23),
		},
		{
			Ativo:      "ITUB4",
			Quantidade: pulse.Q(200),
			PrecoMedio: pulse.M(25.0),
		},
	}
	return pulse.Snapshot{
		Summary: &pulse.PortfolioSummary{
			ValorTotalAtual: pulse.M(5750.0),
			TotalInvestido:  pulse.M(10600.0),
			LucroPrejuizo:   pulse.M(150.0),
			ROIPercentual:   pulse.P(2.68),
		},
		Assets:     assets,
		Categories: SampleCategories(),
	}
}

// SampleCategories returns the sample allocation by asset class.
func SampleCategories() []pulse.CategoryAllocation {
	return []pulse.CategoryAllocation{
		{Name: "Ações LP", Value: pulse.P(35.2), Change: pulse.P(2.1)},
		{Name: "Ações DY", Value: pulse.P(28.5), Change: pulse.P(1.8)},
		{Name: "STOCKS", Value: pulse.P(18.3), Change: pulse.P(4.2)},
		{Name: "FII", Value: pulse.P(12.0), Change: pulse.P(0.9)},
		{Name: "Cripto", Value: pulse.P(4.5), Change: pulse.P(-2.1)},
		{Name: "Renda Fixa", Value: pulse.P(1.5), Change: pulse.P(0.5)},
	}
}

// SamplePositions returns the sample legacy positions.
func SamplePositions() []pulse.AssetPosition {
	ps := Sample().Assets
	for i := range ps {
		ps[i].DataAtt = "17/05/2024"
	}
	return ps
}

// SetSnapshot replaces the data served by the snapshot endpoint.
func (s *Server) SetSnapshot(snap pulse.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
}

// SetPositions replaces the data served by the positions endpoint.
func (s *Server) SetPositions(ps []pulse.AssetPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = ps
}

// Accept makes a connection test endpoint accept c.
func (s *Server) Accept(path string, c pulse.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[path] = c
}

// Fail makes path answer with the HTTP status code. A zero code restores
// the normal behavior.
func (s *Server) Fail(path string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = code
}

// Refuse makes path answer 200 with a business error.
func (s *Server) Refuse(path, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.business[path] = message
}

// Body makes path answer 200 with the raw body.
func (s *Server) Body(path, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[path] = body
}

// Delay slows every answer down by d.
func (s *Server) Delay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Hold makes snapshot requests block until the returned function is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.release = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.release == ch {
				s.release = nil
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Background makes the update endpoint return at once and run its steps in
// the background, one every d, the way the PortfolioPulse backend does.
// A zero d runs the update synchronously.
func (s *Server) Background(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stepDelay = d
}

// OnUpdate registers fn to run when an update completes, with the server
// unlocked. Tests use it to change the data the next fetch sees.
func (s *Server) OnUpdate(fn func(*Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = fn
}

// Hits returns how many requests path received.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Handler returns the routes of the backend.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+pulse.PathSnapshot, s.wrap(s.handleSnapshot))
	mux.HandleFunc("GET "+pulse.PathStatus, s.wrap(s.handleStatus))
	mux.HandleFunc("GET "+pulse.PathPositions, s.wrap(s.handlePositions))
	mux.HandleFunc("GET "+pulse.PathLastUpdateTime, s.wrap(s.handleLastUpdateTime))
	mux.HandleFunc("POST "+pulse.PathUpdate, s.wrap(s.handleUpdate))
	mux.HandleFunc("POST "+pulse.PathTestNord, s.wrap(s.handleLogin("Nord Research")))
	mux.HandleFunc("POST "+pulse.PathTestLevante, s.wrap(s.handleLogin("Levante Ideias")))
	mux.HandleFunc("GET "+pulse.PathTestExcel, s.wrap(s.handleExcel))
	mux.HandleFunc("GET "+pulse.PathLogs, s.wrap(s.handleLogs))
	mux.HandleFunc("GET "+pulse.PathConfig, s.wrap(s.handleConfig))
	mux.HandleFunc("POST "+pulse.PathConfig, s.wrap(s.handleSaveConfig))
	return mux
}

// wrap counts the request and applies the configured failures and delays
// before calling h.
func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		s.mu.Lock()
		s.hits[path]++
		code := s.failures[path]
		msg, refused := s.business[path]
		body, raw := s.bodies[path]
		delay := s.delay
		s.mu.Unlock()
		s.logger.Debug("fake backend request", zap.String("method", r.Method), zap.String("path", path))

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		switch {
		case code != 0:
			writeJSON(w, code, map[string]any{"status": "error", "message": http.StatusText(code)})
		case refused:
			writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": msg})
		case raw:
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
		default:
			h(w, r)
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	hold := s.release
	snap := s.snapshot
	s.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
		// data may have changed while holding.
		s.mu.Lock()
		snap = s.snapshot
		s.mu.Unlock()
	}
	if snap.Assets == nil {
		snap.Assets = []pulse.AssetPosition{}
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "running",
		"message":   "Sistema de atualização de portfólio operacional",
		"timestamp": s.clock().Format(time.RFC3339),
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ps := s.positions
	s.mu.Unlock()
	if len(ps) == 0 {
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": []any{}, "message": "Nenhuma posição encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": ps, "total_positions": len(ps)})
}

func (s *Server) handleLastUpdateTime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.lastUpdate
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "last_update_time": t})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.updating {
		s.mu.Unlock()
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "Atualização já em andamento"})
		return
	}
	s.updating = true
	s.progress = 0
	s.current = ""
	s.logs = nil
	d := s.stepDelay
	s.mu.Unlock()

	if d > 0 {
		go s.runUpdate(d)
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Atualização iniciada"})
		return
	}
	s.runUpdate(0)
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Atualização do portfólio executada com sucesso"})
}

// runUpdate walks the update steps, publishing progress as it goes.
func (s *Server) runUpdate(d time.Duration) {
	s.mu.Lock()
	steps := s.steps
	s.mu.Unlock()
	for i, step := range steps {
		if d > 0 {
			time.Sleep(d)
		}
		typ := pulse.Info
		if i == len(steps)-1 {
			typ = pulse.Success
		}
		s.mu.Lock()
		s.current = step
		s.progress = (i + 1) * 100 / len(steps)
		s.logs = append(s.logs, pulse.RemoteLogEntry{Message: step, Time: s.clock().Format("15:04:05"), Type: typ})
		s.mu.Unlock()
	}
	s.mu.Lock()
	s.lastUpdate = s.clock().Format("2006-01-02 15:04:05")
	fn := s.onUpdate
	s.mu.Unlock()
	if fn != nil {
		fn(s)
	}
	s.mu.Lock()
	s.updating = false
	s.mu.Unlock()
	s.logger.Debug("fake backend update done", zap.Int("steps", len(steps)))
}

func (s *Server) handleLogin(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c pulse.Credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.IsZero() {
			writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "Email e senha são obrigatórios"})
			return
		}
		s.mu.Lock()
		want, ok := s.accounts[r.URL.Path]
		s.mu.Unlock()
		if !ok || !strings.EqualFold(want.Email, c.Email) || want.Password != c.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "Falha no login na " + provider})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Login na " + provider + " realizado com sucesso!"})
	}
}

func (s *Server) handleExcel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cols, preview := s.columns, s.preview
	s.mu.Unlock()
	if len(preview) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": "error", "message": "A planilha está vazia ou não pôde ser lida."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Planilha 'Posições' lida com sucesso!",
		"columns": cols,
		"preview": preview,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := s.logs
	if logs == nil {
		logs = []pulse.RemoteLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"logs":         logs,
		"is_updating":  s.updating,
		"progress":     s.progress,
		"current_step": s.current,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := map[string]any{"last_update_timestamp": s.lastUpdate}
	for k, v := range s.settings {
		cfg[k] = v
	}
	for path, key := range map[string]string{pulse.PathTestNord: "nord_credentials", pulse.PathTestLevante: "levante_credentials"} {
		if c, ok := s.accounts[path]; ok {
			cfg[key] = map[string]any{"email": c.Email, "password": "***"}
		}
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSaveConfig updates the known settings and ignores the other keys.
// An unreadable body changes nothing.
func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var changes map[string]any
	_ = json.NewDecoder(r.Body).Decode(&changes)
	s.mu.Lock()
	for k, v := range changes {
		if _, ok := s.settings[k]; ok {
			s.settings[k] = v
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Configuração atualizada com sucesso"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
