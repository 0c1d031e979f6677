package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/gql/schemagen"
	httpx "github.com/dropDatabas3/gqlgate/internal/http"
	"github.com/dropDatabas3/gqlgate/internal/store"
)

// Admin expone el CRUD de schemas de autorización. Periférico al core: el
// gateway solo necesita lecturas, esto existe para operar las credenciales
// sin tocar la base a mano.
type Admin struct {
	Store  store.SchemaStore
	Cache  *schemagen.Cache
	APIKey string
	Log    *zap.Logger
}

// RequireAPIKey exige X-Admin-API-Key. Sin key configurada no hay admin.
func (a *Admin) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.APIKey == "" {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "admin API disabled")
			return
		}
		got := r.Header.Get("X-Admin-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(a.APIKey)) != 1 {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid admin API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// schemaDTO shape JSON de un schema en el admin API. El token solo se
// devuelve completo en el save que lo generó.
type schemaDTO struct {
	ID          int64    `json:"id,omitempty"`
	UID         string   `json:"uid,omitempty"`
	Name        string   `json:"name"`
	AccessToken string   `json:"accessToken,omitempty"`
	Scope       []string `json:"scope"`
	Enabled     bool     `json:"enabled"`
	ExpiryDate  string   `json:"expiryDate,omitempty"`
	IsPublic    bool     `json:"isPublic,omitempty"`
}

func toDTO(s *types.Schema, includeToken bool) schemaDTO {
	dto := schemaDTO{
		ID:       s.ID,
		UID:      s.UID,
		Name:     s.DisplayName(),
		Scope:    s.Scope.Entries(),
		Enabled:  s.Enabled,
		IsPublic: s.IsPublic,
	}
	if s.ExpiryDate != nil {
		dto.ExpiryDate = s.ExpiryDate.Format(time.RFC3339)
	}
	if includeToken {
		dto.AccessToken = s.AccessToken
	}
	return dto
}

func (a *Admin) List(w http.ResponseWriter, r *http.Request) {
	schemas, err := a.Store.ListSchemas(r.Context())
	if err != nil {
		a.Log.Error("listing schemas", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not list schemas")
		return
	}
	out := make([]schemaDTO, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, toDTO(s, false))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (a *Admin) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	s, err := a.Store.GetSchemaByID(r.Context(), id)
	if store.IsNotFound(err) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "schema not found")
		return
	}
	if err != nil {
		a.Log.Error("getting schema", zap.Int64("id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not get schema")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDTO(s, false))
}

func (a *Admin) Save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
		return
	}
	var in schemaDTO
	if err := json.Unmarshal(body, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json", "could not parse body")
		return
	}

	scope, err := types.NewScope(in.Scope...)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_scope", err.Error())
		return
	}

	s := &types.Schema{
		ID:          in.ID,
		Name:        strings.TrimSpace(in.Name),
		AccessToken: in.AccessToken,
		Scope:       scope,
		Enabled:     in.Enabled,
		IsPublic:    in.IsPublic,
	}
	if in.ExpiryDate != "" {
		t, err := time.Parse(time.RFC3339, in.ExpiryDate)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_expiry", "expiryDate must be RFC3339")
			return
		}
		s.ExpiryDate = &t
	}

	isNew := s.ID == 0
	if !isNew {
		prev, err := a.Store.GetSchemaByID(r.Context(), s.ID)
		if store.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "schema not found")
			return
		}
		if err != nil {
			a.Log.Error("loading schema for update", zap.Int64("id", s.ID), zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not save schema")
			return
		}
		// El token no se regenera implícitamente en updates.
		if s.AccessToken == "" {
			s.AccessToken = prev.AccessToken
		}
	}

	if err := a.Store.SaveSchema(r.Context(), s); err != nil {
		switch err {
		case store.ErrPublicSchemaExists:
			httpx.WriteError(w, http.StatusConflict, "public_schema_exists", err.Error())
		case store.ErrDuplicateToken:
			httpx.WriteError(w, http.StatusConflict, "duplicate_token", err.Error())
		case store.ErrMissingToken:
			httpx.WriteError(w, http.StatusBadRequest, "missing_token", err.Error())
		default:
			a.Log.Error("saving schema", zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not save schema")
		}
		return
	}

	// Los scopes pudieron cambiar: descartar schemas compilados.
	a.Cache.Purge()
	a.Log.Info("schema saved", zap.Int64("id", s.ID), zap.String("name", s.DisplayName()), zap.Bool("new", isNew))

	// El token completo solo viaja en la respuesta de creación.
	httpx.WriteJSON(w, http.StatusOK, toDTO(s, isNew))
}

func (a *Admin) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	err = a.Store.DeleteSchemaByID(r.Context(), id)
	if store.IsNotFound(err) {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "schema not found")
		return
	}
	if err != nil {
		a.Log.Error("deleting schema", zap.Int64("id", id), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "could not delete schema")
		return
	}

	a.Cache.Purge()
	a.Log.Info("schema deleted", zap.Int64("id", id))
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
