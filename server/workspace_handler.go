package server

import (
	"encoding/json"
	"net/http"
)

func (a *API) workspaceState(grammar, input string) WorkspaceResponse {
	unsavedGrammar, unsavedInput := a.Workspace.Unsaved()
	return WorkspaceResponse{
		Path:           a.Workspace.Path(),
		Grammar:        grammar,
		Input:          input,
		UnsavedGrammar: unsavedGrammar,
		UnsavedInput:   unsavedInput,
		AutoSave:       a.Workspace.AutoSave(),
	}
}

// handleOpen opens a grammar file and compiles it.
func (a *API) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "path is required"})
		return
	}

	grammar, input, err := a.Workspace.Open(req.Path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	_, _ = a.compile(grammar)
	writeJSON(w, http.StatusOK, a.workspaceState(grammar, input))
}

// handleUpdateGrammar records an edit and recompiles.
func (a *API) handleUpdateGrammar(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := a.Workspace.UpdateGrammar(req.Content); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	status, resp := a.compile(req.Content)
	writeJSON(w, status, resp)
}

func (a *API) handleUpdateInput(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := a.Workspace.UpdateInput(req.Content); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSave flushes buffered grammar and input.
func (a *API) handleSave(w http.ResponseWriter, r *http.Request) {
	if err := a.Workspace.SaveGrammar(); err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if err := a.Workspace.SaveInput(); err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	a.Workspace.SetAutoSave(req.AutoSave)
	writeJSON(w, http.StatusOK, SettingsRequest{AutoSave: a.Workspace.AutoSave()})
}
