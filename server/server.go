// Package server exposes an Engine and an optional Workspace over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/location"
	"github.com/shibukawa/pestplay/workspace"
)

const APIPrefix = "/api"

// Request structs
type (
	CompileRequest struct {
		Source string `json:"source"`
	}

	ParseRequest struct {
		Rule     string `json:"rule"`
		Input    string `json:"input"`
		Revision string `json:"revision,omitempty"`
	}

	OpenRequest struct {
		Path string `json:"path"`
	}

	ContentRequest struct {
		Content string `json:"content"`
	}

	SettingsRequest struct {
		AutoSave bool `json:"auto_save"`
	}
)

// Response structs
type (
	CompileResponse struct {
		Revision string                 `json:"revision,omitempty"`
		Rules    []string               `json:"rules,omitempty"`
		Errors   []*engine.GrammarError `json:"errors,omitempty"`
	}

	ParseResponse struct {
		Revision string               `json:"revision,omitempty"`
		Stale    bool                 `json:"stale,omitempty"`
		Tree     *engine.TokenTree    `json:"tree"`
		Error    *engine.GrammarError `json:"error,omitempty"`
	}

	ReferencesResponse struct {
		Name      string              `json:"name"`
		Locations []location.Location `json:"locations"`
	}

	NamesResponse struct {
		Names []string `json:"names"`
	}

	WorkspaceResponse struct {
		Path           string `json:"path"`
		Grammar        string `json:"grammar"`
		Input          string `json:"input"`
		UnsavedGrammar bool   `json:"unsaved_grammar"`
		UnsavedInput   bool   `json:"unsaved_input"`
		AutoSave       bool   `json:"auto_save"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

// API provides HTTP handlers for the playground.
type API struct {
	Engine    *engine.Engine
	Workspace *workspace.Workspace // nil disables the workspace endpoints

	mu       sync.Mutex
	revision string
}

// New creates a new API instance.
func New(e *engine.Engine, w *workspace.Workspace) *API {
	return &API{Engine: e, Workspace: w}
}

// Register attaches handlers to the given mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+APIPrefix+"/grammar", a.handleCompile)
	mux.HandleFunc("POST "+APIPrefix+"/parse", a.handleParse)
	mux.HandleFunc("GET "+APIPrefix+"/references/{name}", a.handleReferences)
	mux.HandleFunc("GET "+APIPrefix+"/rules", a.handleNames)

	if a.Workspace != nil {
		mux.HandleFunc("POST "+APIPrefix+"/workspace/open", a.handleOpen)
		mux.HandleFunc("PUT "+APIPrefix+"/workspace/grammar", a.handleUpdateGrammar)
		mux.HandleFunc("PUT "+APIPrefix+"/workspace/input", a.handleUpdateInput)
		mux.HandleFunc("POST "+APIPrefix+"/workspace/save", a.handleSave)
		mux.HandleFunc("PUT "+APIPrefix+"/workspace/settings", a.handleSettings)
	}
}

// Handler returns a mux with the API registered and request logging.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Register(mux)
	return logRequests(mux)
}

func (a *API) currentRevision() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.revision
}

func (a *API) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	status, resp := a.compile(req.Source)
	writeJSON(w, status, resp)
}

func (a *API) compile(source string) (int, CompileResponse) {
	rules, err := a.Engine.Compile(source)
	if err != nil {
		var errs engine.GrammarErrors
		if !errors.As(err, &errs) {
			return http.StatusInternalServerError, CompileResponse{Errors: []*engine.GrammarError{{Kind: engine.KindFatal, Message: err.Error()}}}
		}
		return http.StatusUnprocessableEntity, CompileResponse{Errors: errs}
	}

	a.mu.Lock()
	a.revision = uuid.NewString()
	revision := a.revision
	a.mu.Unlock()

	return http.StatusOK, CompileResponse{Revision: revision, Rules: rules}
}

func (a *API) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	revision := a.currentRevision()
	resp := ParseResponse{
		Revision: revision,
		Stale:    req.Revision != "" && req.Revision != revision,
	}

	tree, err := a.Engine.Execute(req.Rule, req.Input)
	if err != nil {
		var gerr *engine.GrammarError
		if !errors.As(err, &gerr) {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		resp.Error = gerr
		status := http.StatusUnprocessableEntity
		if gerr.Kind == engine.KindFatal {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, resp)
		return
	}

	resp.Tree = tree
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleReferences(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	locs, ok := a.Engine.ReferencesOf(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no references to " + name})
		return
	}
	writeJSON(w, http.StatusOK, ReferencesResponse{Name: name, Locations: locs})
}

func (a *API) handleNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NamesResponse{Names: a.Engine.AllIndexedNames()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if status >= http.StatusInternalServerError {
		log.Printf("status=%d body=%+v", status, v)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d", r.Method, r.URL.Path, rec.status)
	})
}
