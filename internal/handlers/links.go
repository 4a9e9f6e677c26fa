package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chatman-ops-backend/internal/links"
	"chatman-ops-backend/internal/middleware"
	"chatman-ops-backend/internal/models"
	"chatman-ops-backend/internal/supabase"
)

const (
	defaultLinkLifetimeDays = 30
	defaultExtendDays       = 30
	defaultRevokeReason     = "Revoked by admin"
)

// DocumentSigner produces short-lived URLs for stored quote documents.
type DocumentSigner interface {
	SignedDocumentURL(storagePath string) (string, error)
}

type LinksHandler struct {
	store          LinkStore
	documents      DocumentSigner
	realtimeClient *supabase.RealtimeClient
	logger         *zap.Logger
	baseURL        string
}

func NewLinksHandler(store LinkStore, documents DocumentSigner, realtimeClient *supabase.RealtimeClient, logger *zap.Logger, baseURL string) *LinksHandler {
	return &LinksHandler{
		store:          store,
		documents:      documents,
		realtimeClient: realtimeClient,
		logger:         logger,
		baseURL:        baseURL,
	}
}

// CreateLink godoc
// @Summary     Create a customer link
// @Description Issues a tokenized link granting unauthenticated access to a quote or job. Staff only (admin or manager).
// @Tags        customer-links
// @Accept      json
// @Produce     json
// @Param       request body models.CreateLinkRequest true "Link parameters"
// @Success     200 {object} models.DataResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /customer-links [post]
func (h *LinksHandler) CreateLink(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if !staff.IsStaff() {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if !models.ValidLinkType(req.LinkType) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid link type"})
		return
	}
	if req.QuoteID != "" && req.JobID != "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "provide either quote_id or job_id, not both"})
		return
	}

	link := &models.CustomerLink{
		LinkType:      req.LinkType,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
	}

	if req.QuoteID != "" {
		quoteID, err := uuid.Parse(req.QuoteID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid quote id"})
			return
		}
		if _, err := h.store.GetQuote(quoteID); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "quote not found"})
			return
		}
		link.QuoteID = uuid.NullUUID{UUID: quoteID, Valid: true}
	}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid job id"})
			return
		}
		if _, err := h.store.GetJob(jobID); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "job not found"})
			return
		}
		link.JobID = uuid.NullUUID{UUID: jobID, Valid: true}
	}

	token, err := links.NewToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to generate link token",
			Message: err.Error(),
		})
		return
	}
	link.Token = token

	lifetimeDays := defaultLinkLifetimeDays
	if req.ExpiresInDays != nil {
		lifetimeDays = *req.ExpiresInDays
	}
	if lifetimeDays > 0 {
		link.ExpiresAt = sql.NullTime{Time: time.Now().AddDate(0, 0, lifetimeDays), Valid: true}
	}
	if req.MaxUses != nil && *req.MaxUses > 0 {
		link.MaxUses = sql.NullInt64{Int64: int64(*req.MaxUses), Valid: true}
	}

	staffID, err := uuid.Parse(staff.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid session"})
		return
	}
	link.CreatedBy = staffID
	if staff.TeamID != "" {
		if teamID, err := uuid.Parse(staff.TeamID); err == nil {
			link.TeamID = teamID
		}
	}

	created, err := h.store.CreateLink(link)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create customer link",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.DataResponse{Success: true, Data: h.linkDetail(created, time.Now())})
}

// GetLink godoc
// @Summary     Resolve a customer link
// @Description Public entry point for tokenized links. Staff sessions get the unfiltered row without touching usage metrics; public callers get a filtered view and are access-logged.
// @Tags        customer-links
// @Accept      json
// @Produce     json
// @Param       token path string true "Link token"
// @Success     200 {object} models.DataResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /customer-links/{token} [get]
func (h *LinksHandler) GetLink(c *gin.Context) {
	token := c.Param("token")

	link, err := h.store.GetLinkByToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}

	now := time.Now()
	res, err := links.Reconcile(h.store, link, now)
	if err != nil {
		h.logger.Warn("failed to persist lazy expiry",
			zap.String("token", token), zap.Error(err))
	}

	// Staff previews bypass validity enforcement and leave no trace in the
	// customer-facing usage metrics.
	if middleware.StaffFrom(c).IsStaff() {
		c.JSON(http.StatusOK, models.DataResponse{Success: true, Data: h.linkDetail(link, now)})
		return
	}

	if !res.Valid {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: links.PublicMessage(res.Reason)})
		return
	}

	if err := h.store.RecordLinkAccess(link.ID, c.ClientIP(), c.Request.UserAgent(), models.AccessActionView); err != nil {
		h.logger.Warn("failed to record link access",
			zap.String("token", token), zap.Error(err))
	}

	view := models.PublicLinkView{
		Token:         link.Token,
		LinkType:      link.LinkType,
		CustomerName:  link.CustomerName,
		CustomerEmail: link.CustomerEmail,
		IsValid:       true,
	}
	if link.ExpiresAt.Valid {
		t := link.ExpiresAt.Time
		view.ExpiresAt = &t
	}

	if link.QuoteID.Valid {
		if quote, err := h.store.GetQuote(link.QuoteID.UUID); err == nil {
			if err := h.store.MarkQuoteViewed(quote.ID); err != nil {
				h.logger.Warn("failed to mark quote viewed",
					zap.String("quote_id", quote.ID.String()), zap.Error(err))
			} else if quote.Status == models.QuoteStatusSent {
				quote.Status = models.QuoteStatusViewed
			}
			view.Quote = quoteSnapshot(quote)
			if quote.DocumentPath.Valid && h.documents != nil {
				if url, err := h.documents.SignedDocumentURL(quote.DocumentPath.String); err == nil {
					view.DocumentURL = url
				}
			}
		}
	} else if link.JobID.Valid {
		if job, err := h.store.GetJob(link.JobID.UUID); err == nil {
			view.Job = jobSnapshot(job)
		}
	}

	c.JSON(http.StatusOK, models.DataResponse{Success: true, Data: view})
}

// ListLinks godoc
// @Summary     List customer links
// @Description Lists links, scoped to the staff member's team when the session carries one.
// @Tags        customer-links
// @Produce     json
// @Success     200 {object} models.DataResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /customer-links [get]
func (h *LinksHandler) ListLinks(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if !staff.IsStaff() {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	var teamID uuid.NullUUID
	if staff.TeamID != "" {
		if id, err := uuid.Parse(staff.TeamID); err == nil {
			teamID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	linkRows, err := h.store.ListLinks(teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list customer links",
			Message: err.Error(),
		})
		return
	}

	now := time.Now()
	details := make([]models.LinkDetail, len(linkRows))
	for i := range linkRows {
		details[i] = *h.linkDetail(&linkRows[i], now)
	}

	c.JSON(http.StatusOK, models.DataResponse{Success: true, Data: details})
}

// UpdateLink godoc
// @Summary     Apply a staff action to a customer link
// @Description Supported actions: revoke, extend, reactivate. Staff only (admin or manager).
// @Tags        customer-links
// @Accept      json
// @Produce     json
// @Param       token path string true "Link token"
// @Param       request body models.LinkActionRequest true "Action"
// @Success     200 {object} models.DataResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /customer-links/{token} [patch]
func (h *LinksHandler) UpdateLink(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if !staff.IsStaff() {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	var req models.LinkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	link, err := h.store.GetLinkByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}

	now := time.Now()
	if _, err := links.Reconcile(h.store, link, now); err != nil {
		h.logger.Warn("failed to persist lazy expiry",
			zap.String("token", link.Token), zap.Error(err))
	}

	staffID, err := uuid.Parse(staff.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid session"})
		return
	}

	var updated *models.CustomerLink

	switch req.Action {
	case "revoke":
		reason := req.Reason
		if reason == "" {
			reason = defaultRevokeReason
		}
		updated, err = h.store.RevokeLink(link.ID, staffID, reason)
		if err == nil && h.realtimeClient != nil {
			_ = h.realtimeClient.PublishTeamEvent(link.TeamID, "link_revoked",
				supabase.LinkRevokedPayload(link.ID, reason))
		}

	case "extend":
		if link.Status == models.LinkStatusRevoked {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "Cannot extend a revoked link; reactivate it instead",
			})
			return
		}
		days := req.ExtendsDays
		if days <= 0 {
			days = defaultExtendDays
		}
		base := now
		if link.ExpiresAt.Valid {
			base = link.ExpiresAt.Time
		}
		updated, err = h.store.ExtendLink(link.ID, base.AddDate(0, 0, days))

	case "reactivate":
		if link.Status == models.LinkStatusActive {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Link is already active"})
			return
		}
		if link.Status != models.LinkStatusRevoked && link.Status != models.LinkStatusExpired {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "Only revoked or expired links can be reactivated",
			})
			return
		}
		updated, err = h.store.ReactivateLink(link.ID, now.AddDate(0, 0, defaultLinkLifetimeDays))

	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid action"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update customer link",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.DataResponse{Success: true, Data: h.linkDetail(updated, now)})
}

// DeleteLink godoc
// @Summary     Delete a customer link
// @Description Hard-deletes a link. Requires the admin role; managers cannot delete.
// @Tags        customer-links
// @Produce     json
// @Param       token path string true "Link token"
// @Success     200 {object} models.MessageResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /customer-links/{token} [delete]
func (h *LinksHandler) DeleteLink(c *gin.Context) {
	staff := middleware.StaffFrom(c)
	if staff == nil || staff.Role != middleware.RoleAdmin {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	link, err := h.store.GetLinkByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}

	if err := h.store.DeleteLink(link.ID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete customer link",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Success: true, Message: "Link deleted"})
}

// ListAccessLogs godoc
// @Summary     List the access log of a customer link
// @Description Returns the append-only audit trail of unauthenticated interactions. Staff only.
// @Tags        customer-links
// @Produce     json
// @Param       token path string true "Link token"
// @Success     200 {object} models.AccessLogListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /customer-links/{token}/access-logs [get]
func (h *LinksHandler) ListAccessLogs(c *gin.Context) {
	if !middleware.StaffFrom(c).IsStaff() {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
		return
	}

	link, err := h.store.GetLinkByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
		return
	}

	logs, err := h.store.GetLinkAccessLogs(link.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list access logs",
			Message: err.Error(),
		})
		return
	}

	entries := make([]models.AccessLogEntry, len(logs))
	for i, entry := range logs {
		entries[i] = models.AccessLogEntry{
			ID:        entry.ID.String(),
			IPAddress: entry.IPAddress,
			UserAgent: entry.UserAgent,
			Action:    entry.Action,
			CreatedAt: entry.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, models.AccessLogListResponse{Success: true, Data: entries})
}

func (h *LinksHandler) linkDetail(link *models.CustomerLink, now time.Time) *models.LinkDetail {
	detail := &models.LinkDetail{
		ID:            link.ID.String(),
		TeamID:        link.TeamID.String(),
		Token:         link.Token,
		URL:           h.baseURL + "/c/" + link.Token,
		LinkType:      link.LinkType,
		Status:        link.Status,
		CustomerName:  link.CustomerName,
		CustomerEmail: link.CustomerEmail,
		UseCount:      link.UseCount,
		IsValid:       links.Evaluate(link, now).Valid,
		CreatedAt:     link.CreatedAt,
		UpdatedAt:     link.UpdatedAt,
	}
	if link.QuoteID.Valid {
		detail.QuoteID = link.QuoteID.UUID.String()
	}
	if link.JobID.Valid {
		detail.JobID = link.JobID.UUID.String()
	}
	if link.ExpiresAt.Valid {
		t := link.ExpiresAt.Time
		detail.ExpiresAt = &t
	}
	if link.MaxUses.Valid {
		n := link.MaxUses.Int64
		detail.MaxUses = &n
	}
	if link.LastAccessedAt.Valid {
		t := link.LastAccessedAt.Time
		detail.LastAccessedAt = &t
	}
	if link.RevokedAt.Valid {
		t := link.RevokedAt.Time
		detail.RevokedAt = &t
	}
	if link.RevokedBy.Valid {
		detail.RevokedBy = link.RevokedBy.UUID.String()
	}
	if link.RevokeReason.Valid {
		detail.RevokeReason = link.RevokeReason.String
	}
	return detail
}

func quoteSnapshot(quote *models.Quote) *models.QuoteSnapshot {
	snapshot := &models.QuoteSnapshot{
		ID:          quote.ID.String(),
		QuoteNumber: quote.QuoteNumber,
		Status:      quote.Status,
		TotalCents:  quote.TotalCents,
	}
	if quote.Description.Valid {
		snapshot.Description = quote.Description.String
	}
	if quote.DepositCents.Valid {
		snapshot.DepositCents = quote.DepositCents.Int64
	}
	if quote.AcceptedAt.Valid {
		t := quote.AcceptedAt.Time
		snapshot.AcceptedAt = &t
	}
	return snapshot
}

func jobSnapshot(job *models.Job) *models.JobSnapshot {
	snapshot := &models.JobSnapshot{
		ID:        job.ID.String(),
		JobNumber: job.JobNumber,
		Status:    job.Status,
	}
	if job.Description.Valid {
		snapshot.Description = job.Description.String
	}
	if job.ScheduledFor.Valid {
		t := job.ScheduledFor.Time
		snapshot.ScheduledFor = &t
	}
	return snapshot
}
