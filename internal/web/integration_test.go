package web_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/fieldshot/internal/db"
	"github.com/vbonduro/fieldshot/internal/domain"
	exportlocal "github.com/vbonduro/fieldshot/internal/export/local"
	frameslocal "github.com/vbonduro/fieldshot/internal/framestore/local"
	"github.com/vbonduro/fieldshot/internal/persist"
	"github.com/vbonduro/fieldshot/internal/service"
	"github.com/vbonduro/fieldshot/internal/store"
	"github.com/vbonduro/fieldshot/internal/web"
)

// minimalJPEG is 512 bytes with the JPEG magic bytes header followed by zeros.
// http.DetectContentType identifies JPEG from the leading 0xFF 0xD8 bytes.
var minimalJPEG = func() []byte {
	b := make([]byte, 512)
	b[0] = 0xFF
	b[1] = 0xD8
	b[2] = 0xFF
	b[3] = 0xE0
	return b
}()

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })

	frames, err := frameslocal.NewLocalFrameStore(t.TempDir())
	require.NoError(t, err)
	sink, err := exportlocal.NewLocalSink(t.TempDir())
	require.NoError(t, err)

	svc := service.NewCaptureService(
		store.NewProjectStore(),
		store.NewTemplateStore(),
		persist.New(db.NewKV(database), slog.Default()),
		frames,
		sink,
		nil,
		slog.Default(),
	)
	ts := httptest.NewServer(web.NewServer(svc, slog.Default()))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { require.NoError(t, resp.Body.Close()) }()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func postFrame(t *testing.T, url string, payload []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("frame", "frame.jpg")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestCaptureFlow(t *testing.T) {
	ts := newTestServer(t)

	// Create a template, then a project from it.
	resp := postJSON(t, ts.URL+"/api/templates", map[string]any{
		"name": "Inspection",
		"tags": []string{"BLDG", "ROOF"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tpl := decodeBody[domain.Template](t, resp)

	resp = postJSON(t, ts.URL+"/api/projects", map[string]any{
		"name":       "Site1",
		"templateId": tpl.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decodeBody[domain.Project](t, resp)
	assert.Equal(t, []string{"BLDG", "ROOF"}, project.CurrentTags)

	// Narrow the selection to ROOF.
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/projects/%s/tags/current", ts.URL, project.ID),
		strings.NewReader(`{"tags":["ROOF"]}`))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// Capture and finalize with a note.
	resp = postFrame(t, ts.URL+"/api/capture", minimalJPEG)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pending := decodeBody[service.PendingCapture](t, resp)
	assert.Equal(t, "ROOF_0001.jpg", pending.Filename)

	resp = postJSON(t, ts.URL+"/api/capture/finalize", map[string]string{"note": "cracked tile"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	img := decodeBody[domain.CapturedImage](t, resp)
	assert.Equal(t, "ROOF_0001.jpg", img.Filename)
	assert.Equal(t, "cracked tile", img.Note)

	// The stored payload streams back.
	resp, err = http.Get(fmt.Sprintf("%s/api/projects/%s/images/%s/payload", ts.URL, project.ID, img.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, minimalJPEG, data)

	// Manifest records the capture.
	resp, err = http.Get(fmt.Sprintf("%s/api/projects/%s/manifest", ts.URL, project.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	manifestText, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(manifestText), "Project: Site1")
	assert.Contains(t, string(manifestText), "ROOF_0001.jpg")
	assert.Contains(t, string(manifestText), "note: cracked tile")
}

func TestCaptureWithoutProject(t *testing.T) {
	ts := newTestServer(t)

	resp := postFrame(t, ts.URL+"/api/capture", minimalJPEG)
	defer func() { require.NoError(t, resp.Body.Close()) }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCaptureRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/projects", map[string]any{
		"name":       "Site1",
		"initialTag": "ROOF",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = postFrame(t, ts.URL+"/api/capture", []byte("%PDF-1.4 not a frame"))
	defer func() { require.NoError(t, resp.Body.Close()) }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateProjectValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/projects", map[string]any{"name": "NoSource"})
	defer func() { require.NoError(t, resp.Body.Close()) }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/projects", map[string]any{
		"name":       "Site1",
		"initialTag": "ROOF",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decodeBody[domain.Project](t, resp)

	resp = postFrame(t, ts.URL+"/api/capture", minimalJPEG)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
	resp = postJSON(t, ts.URL+"/api/capture/finalize", map[string]string{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = postJSON(t, ts.URL+fmt.Sprintf("/api/projects/%s/export", project.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[service.ExportResult](t, resp)
	assert.False(t, result.ManifestOnly)
	assert.Equal(t, 1, result.Images)
}

func TestSuggestUnavailable(t *testing.T) {
	ts := newTestServer(t)

	resp := postFrame(t, ts.URL+"/api/suggest", minimalJPEG)
	defer func() { require.NoError(t, resp.Body.Close()) }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestDeleteProjectIdempotent(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/projects", map[string]any{
		"name":       "Temp",
		"initialTag": "A",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decodeBody[domain.Project](t, resp)

	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/projects/"+project.ID, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	}
}
