package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"splitcalc/internal/slots"
)

// chunkSize keeps every cell well under the 50k character Sheets limit.
const chunkSize = 40000

// DefaultSheetName is the tab used when none is configured.
const DefaultSheetName = "Records"

// valuesAPI is the slice of the Sheets values service the slot needs.
type valuesAPI interface {
	get(ctx context.Context, rng string) ([][]any, error)
	clear(ctx context.Context, rng string) error
	update(ctx context.Context, rng string, values [][]any) error
}

// Slot stores the payload in column A of one sheet, split across rows.
type Slot struct {
	api   valuesAPI
	name  string
	sheet string
}

var _ slots.Slot = (*Slot)(nil)

// Config selects the spreadsheet and tab.
type Config struct {
	SpreadsheetID string
	SheetName     string
	SlotName      string
}

// New creates a Sheets-backed slot using Service Account credentials from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config) (*Slot, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newSlot(&serviceAPI{svc: svc, spreadsheetID: cfg.SpreadsheetID}, cfg), nil
}

func newSlot(api valuesAPI, cfg Config) *Slot {
	name := cfg.SlotName
	if name == "" {
		name = slots.DefaultName
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = DefaultSheetName
	}
	return &Slot{api: api, name: name, sheet: sheet}
}

func (s *Slot) Name() string {
	return s.name
}

func (s *Slot) column() string {
	return fmt.Sprintf("'%s'!A:A", strings.ReplaceAll(s.sheet, "'", "''"))
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	rows, err := s.api.get(ctx, s.column())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.column(), err)
	}
	var b strings.Builder
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		b.WriteString(fmt.Sprint(row[0]))
	}
	if b.Len() == 0 {
		return nil, slots.ErrNotFound
	}
	return []byte(b.String()), nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	chunks := splitChunks(string(data), chunkSize)
	values := make([][]any, len(chunks))
	for i, c := range chunks {
		values[i] = []any{c}
	}

	if err := s.api.clear(ctx, s.column()); err != nil {
		return fmt.Errorf("clear %s: %w", s.column(), err)
	}
	rng := fmt.Sprintf("'%s'!A1:A%d", strings.ReplaceAll(s.sheet, "'", "''"), len(values))
	if err := s.api.update(ctx, rng, values); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	slog.DebugContext(ctx, "Slot written to Google Sheets", "sheet", s.sheet, "chunks", len(values), "bytes", len(data))
	return nil
}

// splitChunks cuts s into pieces of at most size bytes without splitting a
// UTF-8 sequence.
func splitChunks(s string, size int) []string {
	if s == "" {
		return []string{""}
	}
	var out []string
	for len(s) > 0 {
		if len(s) <= size {
			out = append(out, s)
			break
		}
		cut := size
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = size
		}
		out = append(out, s[:cut])
		s = s[cut:]
	}
	return out
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

type serviceAPI struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func (a *serviceAPI) get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(a.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = []any(row)
	}
	return out, nil
}

func (a *serviceAPI) clear(ctx context.Context, rng string) error {
	_, err := a.svc.Spreadsheets.Values.Clear(a.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (a *serviceAPI) update(ctx context.Context, rng string, values [][]any) error {
	vr := &gsheet.ValueRange{Values: make([][]interface{}, len(values))}
	for i, row := range values {
		vr.Values[i] = row
	}
	_, err := a.svc.Spreadsheets.Values.Update(a.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}
