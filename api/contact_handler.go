package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saadraza/portfolio-backend/database"
	"github.com/saadraza/portfolio-backend/errs"
	"github.com/saadraza/portfolio-backend/models"
	"github.com/saadraza/portfolio-backend/services"
	"github.com/saadraza/portfolio-backend/validate"
)

// contactStore is the slice of the contact repo the handler needs.
type contactStore interface {
	Add(contact *models.Contact) error
	FindByID(id uuid.UUID) (*models.Contact, error)
	FindFiltered(filter database.ContactFilter) ([]*models.Contact, int64, error)
	Update(contact *models.Contact) error
	Delete(id uuid.UUID) error
	Stats() (*models.ContactStats, error)
	FindRecent(limit int) ([]*models.Contact, error)
}

// contactNotifier is the slice of the mailer the handler needs.
type contactNotifier interface {
	NotifyContact(name, email, subject, message string) services.SendResult
	ConfirmContact(name, email, subject string) services.SendResult
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  contactStore
	mailer    contactNotifier
}

func newContactHandler(contacts contactStore, mailer contactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
		mailer:    mailer,
	}
}

type contactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *contactSubmission) validate() *errs.ApiErr {
	var ve validate.Errors
	ve.Add(
		validate.Length("name", s.Name, 2, 100),
		validate.LettersAndSpaces("name", s.Name),
		validate.Email("email", s.Email),
		validate.Length("subject", s.Subject, 5, 200),
		validate.Length("message", s.Message, 10, 1000),
	)
	return ve.AsApiErr()
}

// submit accepts a public contact-form submission. Spam detection flags but
// never blocks; both notification emails are fire-and-forget.
func (h contactHandler) submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactSubmission
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if apiErr := req.validate(); apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		contact := &models.Contact{
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Subject:   strings.TrimSpace(req.Subject),
			Message:   strings.TrimSpace(req.Message),
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			Status:    models.ContactStatusNew,
		}
		contact.IsSpam = models.DetectSpam(contact.Name, contact.Email, contact.Message)

		if err := h.contacts.Add(contact); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create contact", "contact", err))
			return
		}

		go func(c models.Contact) {
			if result := h.mailer.NotifyContact(c.Name, c.Email, c.Subject, c.Message); !result.Success {
				h.logger.Warn().Str("error", result.Error).Msg("admin notification not sent")
			}
			if result := h.mailer.ConfirmContact(c.Name, c.Email, c.Subject); !result.Success {
				h.logger.Warn().Str("error", result.Error).Msg("confirmation email not sent")
			}
		}(*contact)

		h.responder.WriteCreated(w, "Thank you for your message! I will get back to you soon.", map[string]any{
			"id":          contact.ID,
			"submittedAt": contact.CreatedAt,
		})
	}
}

// list returns one admin page of contacts.
func (h contactHandler) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := database.ContactFilter{
			Status:    q.Get("status"),
			IsSpam:    queryBoolPtr(q.Get("isSpam")),
			Search:    q.Get("search"),
			SortBy:    q.Get("sortBy"),
			SortOrder: q.Get("sortOrder"),
			Page:      queryInt(q.Get("page"), 1, 1),
			Limit:     queryInt(q.Get("limit"), 20, 1),
		}

		contacts, total, err := h.contacts.FindFiltered(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contacts", "contacts", err))
			return
		}

		h.responder.WritePage(w, contacts, NewPagination(filter.Page, filter.Limit, total))
	}
}

// get returns one contact, advancing new -> read as a side effect.
func (h contactHandler) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if contact.MarkRead() {
			if err := h.contacts.Update(contact); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update contact", "contact", err))
				return
			}
		}

		h.responder.WriteData(w, contact)
	}
}

type contactStatusUpdate struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

// setStatus applies an admin status change; any transition is allowed.
func (h contactHandler) setStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req contactStatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if !models.IsValidContactStatus(req.Status) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status",
				"must be one of: "+strings.Join(models.ContactStatuses, ", ")))
			return
		}

		contact.SetStatus(req.Status, time.Now())
		if req.AdminNotes != nil {
			contact.AdminNotes = *req.AdminNotes
		}

		if err := h.contacts.Update(contact); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contact", "contact", err))
			return
		}

		h.responder.WriteMessage(w, "Contact status updated", contact)
	}
}

type contactSpamUpdate struct {
	IsSpam *bool `json:"isSpam"`
}

// setSpam flips the spam flag; the bool is required.
func (h contactHandler) setSpam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req contactSpamUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.IsSpam == nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("isSpam", "is required"))
			return
		}

		contact.IsSpam = *req.IsSpam
		if err := h.contacts.Update(contact); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contact", "contact", err))
			return
		}

		h.responder.WriteMessage(w, "Contact spam flag updated", contact)
	}
}

func (h contactHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, apiErr := h.load(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.contacts.Delete(contact.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete contact", "contact", err))
			return
		}

		h.responder.WriteMessage(w, "Contact deleted", nil)
	}
}

// recentContact is the trimmed row embedded in the stats payload.
type recentContact struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// stats serves the live aggregate plus the five most recent contacts.
func (h contactHandler) stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.contacts.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate contacts", "contacts", err))
			return
		}

		recent, err := h.contacts.FindRecent(5)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent contacts", "contacts", err))
			return
		}
		recentRows := make([]recentContact, 0, len(recent))
		for _, c := range recent {
			recentRows = append(recentRows, recentContact{
				Name:      c.Name,
				Email:     c.Email,
				Subject:   c.Subject,
				Status:    c.Status,
				CreatedAt: c.CreatedAt,
			})
		}

		h.responder.WriteData(w, map[string]any{
			"stats":  stats,
			"recent": recentRows,
		})
	}
}

// load resolves the {contactID} route parameter to a row.
func (h contactHandler) load(r *http.Request) (*models.Contact, *errs.ApiErr) {
	id, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		return nil, errs.NewBadRequestError("invalid contact id")
	}

	contact, err := h.contacts.FindByID(id)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to load contact", err)
	}
	if contact == nil {
		return nil, errs.NewNotFoundError("contact not found")
	}
	return contact, nil
}
