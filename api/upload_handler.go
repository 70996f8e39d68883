package api

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
)

// uploadCategories are the storage subdirectories under the upload root.
var uploadCategories = []string{"general", "projects", "skills", "profile", "avatars"}

// imageMimeTypes is the default whitelist for uploaded files.
var imageMimeTypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// profileMimeTypes is the stricter whitelist for profile pictures.
var profileMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

const maxFilesPerRequest = 10

var nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)

// UploadedFile is the metadata returned for each stored file.
type UploadedFile struct {
	OriginalName string    `json:"originalName"`
	Filename     string    `json:"filename"`
	Mimetype     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	Category     string    `json:"category"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	baseDir   string
	maxSize   int64
}

func newUploadHandler(baseDir string, maxSize int64) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()
	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		baseDir:   baseDir,
		maxSize:   maxSize,
	}
}

// single stores one file under the requested category (default general).
func (h uploadHandler) single() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, apiErr := h.parseCategory(r, "general")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		files, apiErr := h.parseFiles(r, "file", 1)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		stored, apiErr := h.store(files[0], category, imageMimeTypes)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		h.responder.WriteCreated(w, "File uploaded", stored)
	}
}

// multiple stores up to ten files under one category.
func (h uploadHandler) multiple() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, apiErr := h.parseCategory(r, "general")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		files, apiErr := h.parseFiles(r, "files", maxFilesPerRequest)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		stored := make([]*UploadedFile, 0, len(files))
		for _, fh := range files {
			one, apiErr := h.store(fh, category, imageMimeTypes)
			if apiErr != nil {
				h.responder.WriteError(w, apiErr)
				return
			}
			stored = append(stored, one)
		}

		h.responder.WriteCreated(w, fmt.Sprintf("%d file(s) uploaded", len(stored)), stored)
	}
}

// project stores up to five images under projects/ and marks the first as
// the main image.
func (h uploadHandler) project() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, apiErr := h.parseFiles(r, "images", 5)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		images := make([]models.ProjectImage, 0, len(files))
		for i, fh := range files {
			one, apiErr := h.store(fh, "projects", imageMimeTypes)
			if apiErr != nil {
				h.responder.WriteError(w, apiErr)
				return
			}
			images = append(images, models.ProjectImage{
				OriginalName: one.OriginalName,
				Filename:     one.Filename,
				Mimetype:     one.Mimetype,
				Size:         one.Size,
				URL:          one.URL,
				IsMain:       i == 0,
				UploadedAt:   one.UploadedAt,
			})
		}

		h.responder.WriteCreated(w, "Project images uploaded", images)
	}
}

// profile stores one profile picture; only jpeg, png and webp are accepted.
func (h uploadHandler) profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, apiErr := h.parseFiles(r, "file", 1)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		stored, apiErr := h.store(files[0], "profile", profileMimeTypes)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		h.responder.WriteCreated(w, "Profile picture uploaded", stored)
	}
}

// delete removes a stored file, searching every category subdirectory.
func (h uploadHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, _, apiErr := h.find(chi.URLParam(r, "filename"))
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := os.Remove(path); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to delete file", err))
			return
		}

		h.responder.WriteMessage(w, "File deleted", nil)
	}
}

// info returns metadata for one stored file.
func (h uploadHandler) info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path, category, apiErr := h.find(chi.URLParam(r, "filename"))
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		stat, err := os.Stat(path)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to stat file", err))
			return
		}

		h.responder.WriteData(w, UploadedFile{
			Filename:   stat.Name(),
			Size:       stat.Size(),
			URL:        "/uploads/" + category + "/" + stat.Name(),
			Category:   category,
			UploadedAt: stat.ModTime(),
		})
	}
}

// list enumerates stored files, newest first, optionally scoped to one
// category directory.
func (h uploadHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := queryInt(q.Get("page"), 1, 1)
		limit := queryInt(q.Get("limit"), 20, 1)

		categories := uploadCategories
		if dir := q.Get("directory"); dir != "" {
			if !isUploadCategory(dir) {
				h.responder.WriteError(w, errs.NewInvalidFieldError("directory", "unknown directory"))
				return
			}
			categories = []string{dir}
		}

		var files []UploadedFile
		for _, category := range categories {
			entries, err := os.ReadDir(filepath.Join(h.baseDir, category))
			if err != nil {
				continue // category directory not created yet
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				stat, err := entry.Info()
				if err != nil {
					continue
				}
				files = append(files, UploadedFile{
					Filename:   entry.Name(),
					Size:       stat.Size(),
					URL:        "/uploads/" + category + "/" + entry.Name(),
					Category:   category,
					UploadedAt: stat.ModTime(),
				})
			}
		}

		sort.Slice(files, func(i, j int) bool {
			return files[i].UploadedAt.After(files[j].UploadedAt)
		})

		total := int64(len(files))
		start := (page - 1) * limit
		if start > len(files) {
			start = len(files)
		}
		end := start + limit
		if end > len(files) {
			end = len(files)
		}

		h.responder.WritePage(w, files[start:end], NewPagination(page, limit, total))
	}
}

// parseCategory reads the category form value, defaulting and enum-checking.
func (h uploadHandler) parseCategory(r *http.Request, def string) (string, *errs.ApiErr) {
	category := r.FormValue("category")
	if category == "" {
		category = def
	}
	if !isUploadCategory(category) {
		return "", errs.NewInvalidFieldError("category", "unknown category")
	}
	return category, nil
}

// parseFiles extracts the multipart files under field, enforcing the
// per-request count limit.
func (h uploadHandler) parseFiles(r *http.Request, field string, max int) ([]*multipart.FileHeader, *errs.ApiErr) {
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		return nil, errs.NewBadRequestError("malformed multipart request")
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, errs.NewInvalidFieldError(field, "no file provided")
	}
	if len(files) > max {
		return nil, errs.NewInvalidFieldError(field, fmt.Sprintf("at most %d file(s) per request", max))
	}
	return files, nil
}

// store validates one file against the whitelist and size cap, then writes
// it under the category directory with a sanitized unique name.
func (h uploadHandler) store(fh *multipart.FileHeader, category string, allowed map[string]bool) (*UploadedFile, *errs.ApiErr) {
	mimetype := fh.Header.Get("Content-Type")
	if !allowed[mimetype] {
		return nil, errs.NewInvalidFieldError("file", fmt.Sprintf("file type %s is not allowed", mimetype))
	}
	if fh.Size > h.maxSize {
		return nil, errs.NewInvalidFieldError("file", fmt.Sprintf("file exceeds the %dMB size limit", h.maxSize/(1024*1024)))
	}

	filename := uniqueFilename(fh.Filename)
	dir := filepath.Join(h.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to create upload directory", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to read upload", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to store upload", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to store upload", err)
	}

	h.logger.Info().Str("filename", filename).Str("category", category).Int64("size", fh.Size).Msg("file stored")

	return &UploadedFile{
		OriginalName: fh.Filename,
		Filename:     filename,
		Mimetype:     mimetype,
		Size:         fh.Size,
		URL:          "/uploads/" + category + "/" + filename,
		Category:     category,
		UploadedAt:   time.Now(),
	}, nil
}

// find locates a stored file by bare filename across the category
// subdirectories.
func (h uploadHandler) find(filename string) (path, category string, apiErr *errs.ApiErr) {
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == ".." {
		return "", "", errs.NewBadRequestError("invalid filename")
	}

	for _, c := range uploadCategories {
		candidate := filepath.Join(h.baseDir, c, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, c, nil
		}
	}
	return "", "", errs.NewNotFoundError("file not found")
}

// uniqueFilename lowercases the original base name, replaces everything
// non-alphanumeric with dashes and appends a unique suffix.
func uniqueFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(nonAlphanumericRe.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%d-%d%s", base, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

func isUploadCategory(category string) bool {
	for _, c := range uploadCategories {
		if c == category {
			return true
		}
	}
	return false
}
