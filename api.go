package pulse

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
)

// Backend endpoints.
const (
	PathSnapshot       = "/api/portfolio_data"
	PathStatus         = "/api/portfolio/status"
	PathPositions      = "/api/portfolio/portfolio"
	PathLastUpdateTime = "/api/portfolio/last-update-time"
	PathUpdate         = "/api/portfolio/update"
	PathTestNord       = "/api/portfolio/test-nord"
	PathTestLevante    = "/api/portfolio/test-levante"
	PathTestExcel      = "/api/portfolio/test-excel"
	PathLogs           = "/api/portfolio/logs"
	PathConfig         = "/api/portfolio/config"
)

// API is the typed binding of the PortfolioPulse backend.
// Every method issues exactly one request.
type API struct {
	BaseURL string        // e.g. http://localhost:5000, without trailing slash
	HTTP    *http.Client  // http.DefaultClient if nil
	Timeout time.Duration // per call, none if zero
	Logger  *zap.Logger   // diagnostic sink, no-op if nil
}

// NewAPI returns an API for baseURL.
func NewAPI(baseURL string, timeout time.Duration, logger *zap.Logger) *API {
	return &API{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		Logger:  logger,
	}
}

// Snapshot fetches the summary and asset details.
//
// Both fields must be present in the payload; summary may be null, asset
// details must be a list.
func (a *API) Snapshot(ctx context.Context) (Snapshot, error) {
	doc, body, err := a.raw(ctx, http.MethodGet, PathSnapshot, true)
	if err != nil {
		return Snapshot{}, err
	}
	if err := require(PathSnapshot, doc, "$.summary", "$.asset_details"); err != nil {
		return Snapshot{}, err
	}
	details, _ := jsonpath.Get("$.asset_details", doc)
	if _, ok := details.([]any); !ok {
		return Snapshot{}, &PayloadError{Path: PathSnapshot, Err: errNotAList("asset_details")}
	}
	var s Snapshot
	if err := json.Unmarshal(body, &s); err != nil {
		return Snapshot{}, &PayloadError{Path: PathSnapshot, Err: err}
	}
	if s.Assets == nil {
		s.Assets = []AssetPosition{}
	}
	return s, nil
}

// Health is the answer of the liveness endpoint.
type Health struct {
	Online    bool
	Message   string
	Timestamp string
}

// Status checks the backend liveness. Any 2xx is Online, whatever the body:
// the message and timestamp are read only when the body is JSON.
func (a *API) Status(ctx context.Context) (Health, error) {
	data, err := a.send(ctx, http.MethodGet, PathStatus, nil)
	if err != nil {
		return Health{}, err
	}
	h := Health{Online: true}
	var doc any
	if json.Unmarshal(data, &doc) != nil {
		return h, nil
	}
	h.Message = message(doc)
	if ts, err := jsonpath.Get("$.timestamp", doc); err == nil {
		h.Timestamp, _ = ts.(string)
	}
	return h, nil
}

// Positions fetches the legacy positions view.
func (a *API) Positions(ctx context.Context) ([]AssetPosition, error) {
	var resp struct {
		Data []AssetPosition `json:"data"`
	}
	if err := a.call(ctx, http.MethodGet, PathPositions, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []AssetPosition{}
	}
	return resp.Data, nil
}

// LastUpdateTime returns the backend's last update timestamp, as sent
// (ISO 8601, or "N/A" when the backend never ran an update).
func (a *API) LastUpdateTime(ctx context.Context) (string, error) {
	var resp struct {
		LastUpdateTime string `json:"last_update_time"`
	}
	if err := a.call(ctx, http.MethodGet, PathLastUpdateTime, nil, &resp, true); err != nil {
		return "", err
	}
	return resp.LastUpdateTime, nil
}

// TriggerUpdate asks the backend to recompute the portfolio. It returns the
// backend message.
func (a *API) TriggerUpdate(ctx context.Context) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := a.call(ctx, http.MethodPost, PathUpdate, struct{}{}, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Credentials of a research provider account.
type Credentials struct {
	Email    string `json:"email" mapstructure:"email"`
	Password string `json:"password" mapstructure:"password"`
}

// IsZero reports whether either field is empty.
func (c Credentials) IsZero() bool { return c.Email == "" || c.Password == "" }

// TestNord checks that the backend can log in to Nord Research.
func (a *API) TestNord(ctx context.Context, c Credentials) (string, error) {
	return a.testLogin(ctx, PathTestNord, c)
}

// TestLevante checks that the backend can log in to Levante Ideias.
func (a *API) TestLevante(ctx context.Context, c Credentials) (string, error) {
	return a.testLogin(ctx, PathTestLevante, c)
}

func (a *API) testLogin(ctx context.Context, path string, c Credentials) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := a.call(ctx, http.MethodPost, path, c, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ExcelPreview is the answer of the spreadsheet test.
type ExcelPreview struct {
	Message string           `json:"message"`
	Columns []string         `json:"columns"`
	Preview []map[string]any `json:"preview"`
}

// TestExcel asks the backend to read its configured spreadsheet.
func (a *API) TestExcel(ctx context.Context) (ExcelPreview, error) {
	var p ExcelPreview
	if err := a.call(ctx, http.MethodGet, PathTestExcel, nil, &p, true); err != nil {
		return ExcelPreview{}, err
	}
	return p, nil
}

// RemoteLogEntry is one line of the backend's own update log.
type RemoteLogEntry struct {
	Message string   `json:"message"`
	Time    string   `json:"time"`
	Type    Severity `json:"type"`
}

// UpdateProgress is the backend's view of a running update.
type UpdateProgress struct {
	Logs        []RemoteLogEntry `json:"logs"`
	IsUpdating  bool             `json:"is_updating"`
	Progress    int              `json:"progress"`
	CurrentStep string           `json:"current_step"`
}

// UpdateLogs fetches the progress of the backend update.
func (a *API) UpdateLogs(ctx context.Context) (UpdateProgress, error) {
	var p UpdateProgress
	if err := a.call(ctx, http.MethodGet, PathLogs, nil, &p, true); err != nil {
		return UpdateProgress{}, err
	}
	return p, nil
}

// RemoteConfig fetches the backend configuration. Passwords are masked by
// the backend.
func (a *API) RemoteConfig(ctx context.Context) (map[string]any, error) {
	var cfg map[string]any
	if err := a.call(ctx, http.MethodGet, PathConfig, nil, &cfg, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveRemoteConfig sends configuration changes to the backend. It returns
// the backend message. The backend ignores keys it does not know.
func (a *API) SaveRemoteConfig(ctx context.Context, changes map[string]any) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := a.call(ctx, http.MethodPost, PathConfig, changes, &resp, true); err != nil {
		return "", err
	}
	return resp.Message, nil
}

type errNotAList string

func (e errNotAList) Error() string { return string(e) + " is not a list" }
