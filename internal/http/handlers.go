package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/inventory-reservation-service/internal/auth"
	"github.com/fairyhunter13/inventory-reservation-service/internal/config"
	httpopenapi "github.com/fairyhunter13/inventory-reservation-service/internal/http/openapi"
	"github.com/fairyhunter13/inventory-reservation-service/internal/obs"
	"github.com/fairyhunter13/inventory-reservation-service/internal/reservation"
	"github.com/fairyhunter13/inventory-reservation-service/internal/session"
	"github.com/fairyhunter13/inventory-reservation-service/internal/store"
)

// App wires the core services behind the HTTP handlers.
type App struct {
	Cfg      config.Config
	Auth     *auth.Service
	Sessions *session.Manager
	Store    *store.Store
	Reserver *reservation.Service
	started  time.Time
}

// NewApp constructs an App over the given services.
func NewApp(cfg config.Config, au *auth.Service, se *session.Manager, st *store.Store, rv *reservation.Service) *App {
	return &App{Cfg: cfg, Auth: au, Sessions: se, Store: st, Reserver: rv, started: time.Now()}
}

type registerRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addItemRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DisplayName == "" || req.Email == "" || req.Password == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "display_name, email, and password are required")
		return
	}
	id, err := a.Auth.Register(r.Context(), req.DisplayName, req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	obs.Logger.Info("account_registered",
		"request_id", RequestIDFromContext(r.Context()),
		"account_id", id,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"account_id": id})
}

func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := a.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	tok := a.Sessions.Issue(id)
	obs.Logger.Info("session_issued",
		"request_id", RequestIDFromContext(r.Context()),
		"account_id", id,
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"token": tok, "account_id": id})
}

func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if AccountIDFromContext(r.Context()) == 0 {
		WriteJSONError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}
	a.Sessions.Revoke(TokenFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// itemsHandler serves the /items collection: listing is public, adding an
// item requires a principal.
func (a *App) itemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := a.Store.ListItems(r.Context())
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	case http.MethodPost:
		if AccountIDFromContext(r.Context()) == 0 {
			WriteJSONError(w, http.StatusUnauthorized, "unauthenticated", "")
			return
		}
		var req addItemRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "name is required")
			return
		}
		if req.Price < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "price must be >= 0")
			return
		}
		if req.Stock < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "stock must be >= 0")
			return
		}
		id, err := a.Store.AddItem(r.Context(), req.Name, req.Price, req.Stock)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"item_id": id})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

// itemTreeHandler serves /items/{id} and /items/{id}/reserve.
func (a *App) itemTreeHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/items/")
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		a.getItem(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "reserve":
		a.reserveItem(w, r, parts[0])
	default:
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	}
}

func parseItemID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "item id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (a *App) getItem(w http.ResponseWriter, r *http.Request, raw string) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	id, ok := parseItemID(w, raw)
	if !ok {
		return
	}
	item, err := a.Store.GetItem(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(item)
}

func (a *App) reserveItem(w http.ResponseWriter, r *http.Request, raw string) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	accountID := AccountIDFromContext(r.Context())
	if accountID == 0 {
		WriteJSONError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}
	itemID, ok := parseItemID(w, raw)
	if !ok {
		return
	}
	res, err := a.Reserver.Reserve(r.Context(), accountID, itemID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if !res.Accepted {
		WriteJSONError(w, http.StatusConflict, res.Reason, "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}

func (a *App) reservationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	accountID := AccountIDFromContext(r.Context())
	if accountID == 0 {
		WriteJSONError(w, http.StatusUnauthorized, "unauthenticated", "")
		return
	}
	acc, err := a.Store.AccountByID(r.Context(), accountID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	lines, err := a.Store.ListReservations(r.Context(), accountID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"account":      acc.DisplayName,
		"reservations": lines,
		"total":        total,
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	accepted, rejected, conflicts, retries := a.Reserver.Metrics()
	m := map[string]any{
		"reservations_accepted": accepted,
		"reservations_rejected": rejected,
		"transaction_conflicts": conflicts,
		"reserve_retries":       retries,
		"uptime_sec":            time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
