package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadRouter(baseDir string) chi.Router {
	h := newUploadHandler(baseDir, 5*1024*1024)
	r := chi.NewRouter()
	r.Post("/upload/single", h.single())
	r.Post("/upload/multiple", h.multiple())
	r.Post("/upload/project", h.project())
	r.Post("/upload/profile", h.profile())
	r.Get("/upload/list", h.list())
	r.Get("/upload/info/{filename}", h.info())
	r.Delete("/upload/{filename}", h.delete())
	return r
}

// multipartBody builds a multipart payload of (field, filename, mimetype)
// parts, each with a small fake payload.
func multipartBody(t *testing.T, files [][3]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f[0], f[1]))
		header.Set("Content-Type", f[2])
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, path string, body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestUploadSingle(t *testing.T) {
	baseDir := t.TempDir()
	router := newUploadRouter(baseDir)

	body, contentType := multipartBody(t, [][3]string{{"file", "My Photo (1).PNG", "image/png"}}, nil)
	rec, env := doUpload(t, router, "/upload/single", body, contentType)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got UploadedFile
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "My Photo (1).PNG", got.OriginalName)
	assert.Equal(t, "general", got.Category)
	assert.Regexp(t, `^my-photo-1-\d+-\d+\.png$`, got.Filename)
	assert.Equal(t, "/uploads/general/"+got.Filename, got.URL)

	_, err := os.Stat(filepath.Join(baseDir, "general", got.Filename))
	assert.NoError(t, err)
}

func TestUploadSingleWithCategory(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	body, contentType := multipartBody(t,
		[][3]string{{"file", "logo.png", "image/png"}},
		map[string]string{"category": "skills"})
	rec, env := doUpload(t, router, "/upload/single", body, contentType)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got UploadedFile
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "skills", got.Category)
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	body, contentType := multipartBody(t,
		[][3]string{{"file", "logo.png", "image/png"}},
		map[string]string{"category": "secrets"})
	rec, _ := doUpload(t, router, "/upload/single", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsDisallowedMime(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	body, contentType := multipartBody(t, [][3]string{{"file", "script.exe", "application/octet-stream"}}, nil)
	rec, _ := doUpload(t, router, "/upload/single", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadProfileRejectsGif(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	// gif passes the general whitelist but not the profile one
	body, contentType := multipartBody(t, [][3]string{{"file", "avatar.gif", "image/gif"}}, nil)
	rec, _ := doUpload(t, router, "/upload/profile", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, contentType = multipartBody(t, [][3]string{{"file", "avatar.png", "image/png"}}, nil)
	rec, _ = doUpload(t, router, "/upload/profile", body, contentType)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestUploadProjectMarksFirstAsMain(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	body, contentType := multipartBody(t, [][3]string{
		{"images", "one.png", "image/png"},
		{"images", "two.png", "image/png"},
	}, nil)
	rec, env := doUpload(t, router, "/upload/project", body, contentType)

	require.Equal(t, http.StatusCreated, rec.Code)
	var images []struct {
		IsMain bool   `json:"isMain"`
		URL    string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &images))
	require.Len(t, images, 2)
	assert.True(t, images[0].IsMain)
	assert.False(t, images[1].IsMain)
}

func TestUploadMultipleEnforcesCount(t *testing.T) {
	router := newUploadRouter(t.TempDir())

	var files [][3]string
	for i := 0; i < maxFilesPerRequest+1; i++ {
		files = append(files, [3]string{"files", fmt.Sprintf("f%d.png", i), "image/png"})
	}
	body, contentType := multipartBody(t, files, nil)
	rec, _ := doUpload(t, router, "/upload/multiple", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadInfoListAndDelete(t *testing.T) {
	baseDir := t.TempDir()
	router := newUploadRouter(baseDir)

	body, contentType := multipartBody(t, [][3]string{{"file", "photo.png", "image/png"}}, nil)
	rec, env := doUpload(t, router, "/upload/single", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored UploadedFile
	require.NoError(t, json.Unmarshal(env.Data, &stored))

	// info finds it across the category directories
	rec, env = doJSON(t, router, http.MethodGet, "/upload/info/"+stored.Filename, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info UploadedFile
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, stored.Filename, info.Filename)
	assert.Equal(t, "general", info.Category)

	// list includes it
	rec, env = doJSON(t, router, http.MethodGet, "/upload/list", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)

	// delete removes the file
	rec, _ = doJSON(t, router, http.MethodDelete, "/upload/"+stored.Filename, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := os.Stat(filepath.Join(baseDir, "general", stored.Filename))
	assert.True(t, os.IsNotExist(err))

	// and a second delete is a 404
	rec, _ = doJSON(t, router, http.MethodDelete, "/upload/"+stored.Filename, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUniqueFilename(t *testing.T) {
	a := uniqueFilename("My File!.PNG")
	b := uniqueFilename("My File!.PNG")

	assert.Regexp(t, `^my-file-\d+-\d+\.png$`, a)
	assert.NotEqual(t, a, b)

	assert.Regexp(t, `^file-\d+-\d+$`, uniqueFilename("???"))
}
