package supabase

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"chatman-ops-backend/internal/models"
)

// ErrQuoteAlreadyProcessed is returned by AcceptQuote when the conditional
// status update matches no row, i.e. the quote left sent/viewed before this
// acceptance committed. The loser of a concurrent-acceptance race gets this.
var ErrQuoteAlreadyProcessed = errors.New("quote already processed")

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

const linkColumns = `id, team_id, token, link_type, status, customer_name, customer_email,
	quote_id, job_id, expires_at, max_uses, use_count, last_accessed_at,
	revoked_at, revoked_by, revoke_reason, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*models.CustomerLink, error) {
	var link models.CustomerLink
	err := row.Scan(
		&link.ID, &link.TeamID, &link.Token, &link.LinkType, &link.Status,
		&link.CustomerName, &link.CustomerEmail, &link.QuoteID, &link.JobID,
		&link.ExpiresAt, &link.MaxUses, &link.UseCount, &link.LastAccessedAt,
		&link.RevokedAt, &link.RevokedBy, &link.RevokeReason,
		&link.CreatedBy, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (d *DatabaseClient) CreateLink(link *models.CustomerLink) (*models.CustomerLink, error) {
	row := d.db.QueryRow(`
		INSERT INTO customer_links
			(team_id, token, link_type, status, customer_name, customer_email,
			 quote_id, job_id, expires_at, max_uses, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+linkColumns+`
	`, link.TeamID, link.Token, link.LinkType, models.LinkStatusActive,
		link.CustomerName, link.CustomerEmail, link.QuoteID, link.JobID,
		link.ExpiresAt, link.MaxUses, link.CreatedBy)

	created, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer link: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) GetLinkByToken(token string) (*models.CustomerLink, error) {
	row := d.db.QueryRow(`
		SELECT `+linkColumns+`
		FROM customer_links
		WHERE token = $1
	`, token)

	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer link: %w", err)
	}
	return link, nil
}

func (d *DatabaseClient) ListLinks(teamID uuid.NullUUID) ([]models.CustomerLink, error) {
	query := `SELECT ` + linkColumns + ` FROM customer_links ORDER BY created_at DESC`
	args := []interface{}{}
	if teamID.Valid {
		query = `SELECT ` + linkColumns + ` FROM customer_links WHERE team_id = $1 ORDER BY created_at DESC`
		args = append(args, teamID.UUID)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer links: %w", err)
	}
	defer rows.Close()

	var result []models.CustomerLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer link: %w", err)
		}
		result = append(result, *link)
	}

	return result, rows.Err()
}

// MarkLinkExpired persists the lazy expired transition. Conditional on the
// stored status so a concurrent revoke or reactivate is not clobbered.
func (d *DatabaseClient) MarkLinkExpired(id uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE customer_links
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.LinkStatusExpired, id, models.LinkStatusActive)
	return err
}

// RecordLinkAccess appends an audit row and bumps last_accessed_at plus the
// atomic use counter in one transaction. One call per public view.
func (d *DatabaseClient) RecordLinkAccess(linkID uuid.UUID, ip, userAgent, action string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO customer_link_access_logs (customer_link_id, ip_address, user_agent, action)
		VALUES ($1, $2, $3, $4)
	`, linkID, ip, userAgent, action); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert access log: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE customer_links
		SET use_count = use_count + 1, last_accessed_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`, linkID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update link access counters: %w", err)
	}

	return tx.Commit()
}

func (d *DatabaseClient) GetLinkAccessLogs(linkID uuid.UUID) ([]models.LinkAccessLog, error) {
	rows, err := d.db.Query(`
		SELECT id, customer_link_id, ip_address, user_agent, action, created_at
		FROM customer_link_access_logs
		WHERE customer_link_id = $1
		ORDER BY created_at DESC
	`, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get access logs: %w", err)
	}
	defer rows.Close()

	var logs []models.LinkAccessLog
	for rows.Next() {
		var entry models.LinkAccessLog
		err := rows.Scan(
			&entry.ID, &entry.CustomerLinkID, &entry.IPAddress,
			&entry.UserAgent, &entry.Action, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan access log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, rows.Err()
}

// RevokeLink re-stamps revoke metadata even when the link is already revoked;
// revoking twice is a safe re-assertion, not an error.
func (d *DatabaseClient) RevokeLink(id, revokedBy uuid.UUID, reason string) (*models.CustomerLink, error) {
	row := d.db.QueryRow(`
		UPDATE customer_links
		SET status = $1, revoked_at = NOW(), revoked_by = $2, revoke_reason = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+linkColumns+`
	`, models.LinkStatusRevoked, revokedBy, reason, id)

	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke customer link: %w", err)
	}
	return link, nil
}

func (d *DatabaseClient) ExtendLink(id uuid.UUID, expiresAt time.Time) (*models.CustomerLink, error) {
	row := d.db.QueryRow(`
		UPDATE customer_links
		SET status = $1, expires_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+linkColumns+`
	`, models.LinkStatusActive, expiresAt, id)

	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to extend customer link: %w", err)
	}
	return link, nil
}

func (d *DatabaseClient) ReactivateLink(id uuid.UUID, expiresAt time.Time) (*models.CustomerLink, error) {
	row := d.db.QueryRow(`
		UPDATE customer_links
		SET status = $1, expires_at = $2,
			revoked_at = NULL, revoked_by = NULL, revoke_reason = NULL,
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+linkColumns+`
	`, models.LinkStatusActive, expiresAt, id)

	link, err := scanLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to reactivate customer link: %w", err)
	}
	return link, nil
}

func (d *DatabaseClient) DeleteLink(id uuid.UUID) error {
	_, err := d.db.Exec(`
		DELETE FROM customer_links
		WHERE id = $1
	`, id)
	return err
}

func (d *DatabaseClient) GetQuote(id uuid.UUID) (*models.Quote, error) {
	var q models.Quote
	err := d.db.QueryRow(`
		SELECT id, team_id, quote_number, customer_name, customer_email, description,
			status, total_cents, deposit_cents, document_path, accepted_at, paid_at,
			created_at, updated_at
		FROM quotes
		WHERE id = $1
	`, id).Scan(
		&q.ID, &q.TeamID, &q.QuoteNumber, &q.CustomerName, &q.CustomerEmail,
		&q.Description, &q.Status, &q.TotalCents, &q.DepositCents,
		&q.DocumentPath, &q.AcceptedAt, &q.PaidAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return &q, nil
}

// MarkQuoteViewed flips a sent quote to viewed on first customer view.
// Conditional so later views and accepted quotes are untouched.
func (d *DatabaseClient) MarkQuoteViewed(id uuid.UUID) error {
	_, err := d.db.Exec(`
		UPDATE quotes
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.QuoteStatusViewed, id, models.QuoteStatusSent)
	return err
}

func (d *DatabaseClient) GetJob(id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := d.db.QueryRow(`
		SELECT id, team_id, job_number, customer_name, description, status,
			scheduled_for, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`, id).Scan(
		&j.ID, &j.TeamID, &j.JobNumber, &j.CustomerName, &j.Description,
		&j.Status, &j.ScheduledFor, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

type AcceptQuoteParams struct {
	QuoteID        uuid.UUID
	CustomerLinkID uuid.UUID
	SignerName     string
	SignerEmail    string
	SignerIP       string
	SignerUA       string
	SignatureType  string
	SignatureData  sql.NullString
	PaymentOption  string
	DepositCents   sql.NullInt64
}

// AcceptQuote records a quote acceptance atomically: the quote's status is
// moved to accepted with a conditional update (guarding against a concurrent
// acceptance racing past the application-level status check), the acceptance
// row is inserted, the approve audit row is appended, and the link is
// consumed. Returns ErrQuoteAlreadyProcessed when the guard fails.
func (d *DatabaseClient) AcceptQuote(params AcceptQuoteParams) (*models.QuoteAcceptance, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.Exec(`
		UPDATE quotes
		SET status = $1, accepted_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND status IN ($3, $4)
	`, models.QuoteStatusAccepted, params.QuoteID,
		models.QuoteStatusSent, models.QuoteStatusViewed)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check quote update: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return nil, ErrQuoteAlreadyProcessed
	}

	var acceptance models.QuoteAcceptance
	err = tx.QueryRow(`
		INSERT INTO quote_acceptances
			(quote_id, customer_link_id, signer_name, signer_email, signer_ip,
			 signer_user_agent, signature_type, signature_data, terms_accepted,
			 payment_option, deposit_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $10)
		RETURNING id, quote_id, customer_link_id, signer_name, signer_email,
			signer_ip, signer_user_agent, signature_type, signature_data,
			terms_accepted, payment_option, deposit_cents, created_at
	`, params.QuoteID, params.CustomerLinkID, params.SignerName,
		params.SignerEmail, params.SignerIP, params.SignerUA,
		params.SignatureType, params.SignatureData, params.PaymentOption,
		params.DepositCents).Scan(
		&acceptance.ID, &acceptance.QuoteID, &acceptance.CustomerLinkID,
		&acceptance.SignerName, &acceptance.SignerEmail, &acceptance.SignerIP,
		&acceptance.SignerUA, &acceptance.SignatureType, &acceptance.SignatureData,
		&acceptance.TermsAccepted, &acceptance.PaymentOption,
		&acceptance.DepositCents, &acceptance.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert quote acceptance: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO customer_link_access_logs (customer_link_id, ip_address, user_agent, action)
		VALUES ($1, $2, $3, $4)
	`, params.CustomerLinkID, params.SignerIP, params.SignerUA, models.AccessActionApprove); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert approve log: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE customer_links
		SET status = $1, use_count = use_count + 1, last_accessed_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`, models.LinkStatusUsed, params.CustomerLinkID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to consume customer link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit acceptance: %w", err)
	}

	return &acceptance, nil
}

func (d *DatabaseClient) CreatePayment(p *models.Payment) error {
	_, err := d.db.Exec(`
		INSERT INTO payments
			(quote_id, customer_link_id, stripe_session_id, amount_cents, payment_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.QuoteID, p.CustomerLinkID, p.StripeSessionID, p.AmountCents, p.PaymentType, p.Status)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// CompletePaymentBySession marks the pending payment for a checkout session
// completed and, for full payments, stamps paid_at on the quote.
func (d *DatabaseClient) CompletePaymentBySession(sessionID string) (*models.Payment, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var p models.Payment
	err = tx.QueryRow(`
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE stripe_session_id = $2 AND status = $3
		RETURNING id, quote_id, customer_link_id, stripe_session_id,
			amount_cents, payment_type, status, created_at, updated_at
	`, models.PaymentStatusCompleted, sessionID, models.PaymentStatusPending).Scan(
		&p.ID, &p.QuoteID, &p.CustomerLinkID, &p.StripeSessionID,
		&p.AmountCents, &p.PaymentType, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	if p.PaymentType == models.PaymentTypeFull {
		if _, err := tx.Exec(`
			UPDATE quotes
			SET paid_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, p.QuoteID); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to mark quote paid: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment completion: %w", err)
	}

	return &p, nil
}

func (d *DatabaseClient) MarkPaymentFailed(sessionID string) error {
	_, err := d.db.Exec(`
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE stripe_session_id = $2 AND status = $3
	`, models.PaymentStatusFailed, sessionID, models.PaymentStatusPending)
	return err
}

func (d *DatabaseClient) CreateCallbackRequest(cr *models.CallbackRequest) (*models.CallbackRequest, error) {
	var created models.CallbackRequest
	err := d.db.QueryRow(`
		INSERT INTO callback_requests (name, phone, message, call_sid, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, phone, message, call_sid, status, created_at
	`, cr.Name, cr.Phone, cr.Message, cr.CallSID, cr.Status).Scan(
		&created.ID, &created.Name, &created.Phone, &created.Message,
		&created.CallSID, &created.Status, &created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create callback request: %w", err)
	}
	return &created, nil
}

func (d *DatabaseClient) UpdateCallbackRequestCall(id uuid.UUID, callSID, status string) error {
	_, err := d.db.Exec(`
		UPDATE callback_requests
		SET call_sid = $1, status = $2
		WHERE id = $3
	`, callSID, status, id)
	return err
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
