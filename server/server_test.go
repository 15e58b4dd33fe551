package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/pestplay/engine"
	"github.com/shibukawa/pestplay/workspace"
)

const numberGrammar = "digit = { '0'..'9' }\nnumber = { digit+ }"

func setupAPI(t *testing.T, w *workspace.Workspace) http.Handler {
	t.Helper()
	return New(engine.New(), w).Handler()
}

func jsonRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCompileAndParse(t *testing.T) {
	handler := setupAPI(t, nil)

	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/grammar", CompileRequest{Source: numberGrammar})
	assert.Equal(t, http.StatusOK, rec.Code)
	compiled := decode[CompileResponse](t, rec)
	assert.Equal(t, []string{"digit", "number"}, compiled.Rules)
	assert.NotEqual(t, "", compiled.Revision)

	rec = jsonRequest(t, handler, http.MethodPost, APIPrefix+"/parse", ParseRequest{Rule: "number", Input: "42", Revision: compiled.Revision})
	assert.Equal(t, http.StatusOK, rec.Code)
	parsed := decode[ParseResponse](t, rec)
	assert.False(t, parsed.Stale)
	assert.Equal(t, "number", parsed.Tree.Label)
	assert.Equal(t, 2, len(parsed.Tree.Children))
	assert.Equal(t, "digit: 4", parsed.Tree.Children[0].Label)
}

func TestParseBeforeCompile(t *testing.T) {
	handler := setupAPI(t, nil)

	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/parse", ParseRequest{Rule: "number", Input: "42"})
	assert.Equal(t, http.StatusOK, rec.Code)
	parsed := decode[ParseResponse](t, rec)
	assert.Zero(t, parsed.Tree)
	assert.Zero(t, parsed.Error)
}

func TestCompileErrors(t *testing.T) {
	handler := setupAPI(t, nil)

	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/grammar", CompileRequest{Source: "a = { b }"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors []struct {
			Kind     string `json:"kind"`
			Message  string `json:"message"`
			Location struct {
				StartLine int `json:"start_line"`
				StartCol  int `json:"start_col"`
			} `json:"location"`
		} `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, len(body.Errors))
	assert.Equal(t, "validation", body.Errors[0].Kind)
	assert.Equal(t, "rule b is undefined", body.Errors[0].Message)
	assert.Equal(t, 7, body.Errors[0].Location.StartCol)
}

func TestParseErrorAndStaleRevision(t *testing.T) {
	handler := setupAPI(t, nil)
	jsonRequest(t, handler, http.MethodPost, APIPrefix+"/grammar", CompileRequest{Source: numberGrammar})

	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/parse", ParseRequest{Rule: "number", Input: "x", Revision: "old"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	parsed := decode[ParseResponse](t, rec)
	assert.True(t, parsed.Stale)
	assert.Equal(t, "expected digit", parsed.Error.Message)
	assert.Equal(t, engine.KindMatch, parsed.Error.Kind)
}

func TestReferencesAndNames(t *testing.T) {
	handler := setupAPI(t, nil)
	jsonRequest(t, handler, http.MethodPost, APIPrefix+"/grammar", CompileRequest{Source: numberGrammar})

	rec := jsonRequest(t, handler, http.MethodGet, APIPrefix+"/references/digit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	refs := decode[ReferencesResponse](t, rec)
	assert.Equal(t, "digit", refs.Name)
	assert.Equal(t, 2, len(refs.Locations))
	assert.Equal(t, 2, refs.Locations[1].StartLine)

	rec = jsonRequest(t, handler, http.MethodGet, APIPrefix+"/references/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = jsonRequest(t, handler, http.MethodGet, APIPrefix+"/rules", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"digit", "number"}, decode[NamesResponse](t, rec).Names)
}

func TestBadRequest(t *testing.T) {
	handler := setupAPI(t, nil)
	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/grammar", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkspaceEndpointsDisabled(t *testing.T) {
	handler := setupAPI(t, nil)
	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/workspace/save", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWorkspaceFlow(t *testing.T) {
	dir := t.TempDir()
	grammarPath := filepath.Join(dir, "numbers.pest")
	assert.NoError(t, os.WriteFile(grammarPath, []byte(numberGrammar), 0o644))

	settings, err := workspace.LoadSettings(filepath.Join(dir, "settings.yaml"))
	assert.NoError(t, err)
	inputs, err := workspace.LoadInputStore(filepath.Join(dir, "inputs.yaml"))
	assert.NoError(t, err)
	handler := setupAPI(t, workspace.New(settings, inputs))

	rec := jsonRequest(t, handler, http.MethodPost, APIPrefix+"/workspace/open", OpenRequest{Path: grammarPath})
	assert.Equal(t, http.StatusOK, rec.Code)
	state := decode[WorkspaceResponse](t, rec)
	assert.Equal(t, numberGrammar, state.Grammar)
	assert.False(t, state.AutoSave)

	// Opening compiles the grammar.
	rec = jsonRequest(t, handler, http.MethodPost, APIPrefix+"/parse", ParseRequest{Rule: "number", Input: "7"})
	assert.Equal(t, http.StatusOK, rec.Code)

	updated := numberGrammar + "\nsign = { \"-\" }"
	rec = jsonRequest(t, handler, http.MethodPut, APIPrefix+"/workspace/grammar", ContentRequest{Content: updated})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"digit", "number", "sign"}, decode[CompileResponse](t, rec).Rules)

	rec = jsonRequest(t, handler, http.MethodPut, APIPrefix+"/workspace/input", ContentRequest{Content: "-7"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	data, err := os.ReadFile(grammarPath)
	assert.NoError(t, err)
	assert.Equal(t, numberGrammar, string(data))

	rec = jsonRequest(t, handler, http.MethodPost, APIPrefix+"/workspace/save", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	data, err = os.ReadFile(grammarPath)
	assert.NoError(t, err)
	assert.Equal(t, updated, string(data))

	rec = jsonRequest(t, handler, http.MethodPut, APIPrefix+"/workspace/settings", SettingsRequest{AutoSave: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[SettingsRequest](t, rec).AutoSave)
}

func TestRoutesUseAPIPrefix(t *testing.T) {
	handler := setupAPI(t, nil)
	assert.Equal(t, "/api", APIPrefix)

	rec := jsonRequest(t, handler, http.MethodPost, "/api/grammar", CompileRequest{Source: numberGrammar})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = jsonRequest(t, handler, http.MethodGet, "/api/rules", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, path := range []string{"/grammar", "/parse", "/rules", "/references/digit"} {
		method := http.MethodGet
		if path == "/grammar" || path == "/parse" {
			method = http.MethodPost
		}
		rec := jsonRequest(t, handler, method, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
