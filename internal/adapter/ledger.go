package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
)

const (
	notesPath  = "/api/notes"
	eventsPath = "/api/notes/events"
)

// LedgerAdapter talks to the ledger server over HTTP. Write bodies are
// signed with the HashSHA256 header.
type LedgerAdapter struct {
	client  *utils.HTTPClient
	baseURL string
	hashKey string
	dialer  *websocket.Dialer

	logger *logger.Logger
}

// NewLedgerAdapter validates the server address and prepares the HTTP client.
// No request is made.
func NewLedgerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) (*LedgerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ledger http address: %w", ErrInvalidConfig, err)
	}

	return &LedgerAdapter{
		client:  utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		baseURL: baseURL,
		hashKey: appCfg.HashKey,
		dialer:  websocket.DefaultDialer,
		logger:  log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// FetchNotes implements [NoteReader] with GET /api/notes.
func (l *LedgerAdapter) FetchNotes(ctx context.Context) ([]models.NoteRecord, error) {
	var records []models.NoteRecord

	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&records).
		Get(notesPath)
	if err != nil {
		return nil, transportError("fetch notes", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return records, nil
}

// SubmitNote implements [NoteWriter] with POST /api/notes and returns the
// receipt issued by the server.
func (l *LedgerAdapter) SubmitNote(ctx context.Context, draft models.NoteDraft) (models.Receipt, error) {
	var created models.CreateNoteResponse

	req, err := l.signed(ctx, draft)
	if err != nil {
		return "", err
	}
	resp, err := req.SetResult(&created).Post(notesPath)
	if err != nil {
		return "", transportError("submit note", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	if created.Receipt == "" {
		return "", fmt.Errorf("%w: empty receipt", ErrUnavailable)
	}

	l.logger.Debug().
		Str("func", "LedgerAdapter.SubmitNote").
		Str("note_id", created.ID).
		Str("receipt", string(created.Receipt)).
		Msg("note accepted by ledger")

	return created.Receipt, nil
}

// MoveNote implements [NoteMutator] with PUT /api/notes/{id}/position.
func (l *LedgerAdapter) MoveNote(ctx context.Context, id string, to models.Point) error {
	req, err := l.signed(ctx, models.MoveNoteRequest{X: to.X, Y: to.Y})
	if err != nil {
		return err
	}
	resp, err := req.Put(notesPath + "/" + url.PathEscape(id) + "/position")
	if err != nil {
		return transportError("move note", err)
	}
	return mapHTTPError(resp)
}

// DeleteNote implements [NoteMutator] with DELETE /api/notes/{id}.
func (l *LedgerAdapter) DeleteNote(ctx context.Context, id string) error {
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader(utils.HashHeader, utils.HashString("", l.hashKey)).
		Delete(notesPath + "/" + url.PathEscape(id))
	if err != nil {
		return transportError("delete note", err)
	}
	return mapHTTPError(resp)
}

// signed returns a request carrying body as JSON together with its HMAC.
// resty would re-encode a struct, so the exact signed bytes are sent.
func (l *LedgerAdapter) signed(ctx context.Context, body any) (*resty.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	return l.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(utils.HashHeader, utils.HashString(string(payload), l.hashKey)).
		SetBody(payload), nil
}

func transportError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request: %w", op, err)
	}
	return fmt.Errorf("%w: %s request: %w", ErrUnavailable, op, err)
}
