package google

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"splitcalc/internal/slots"
)

type fakeValues struct {
	rows    [][]any
	cleared []string
	updated string
	failGet error
}

func (f *fakeValues) get(_ context.Context, _ string) ([][]any, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.rows, nil
}

func (f *fakeValues) clear(_ context.Context, rng string) error {
	f.cleared = append(f.cleared, rng)
	f.rows = nil
	return nil
}

func (f *fakeValues) update(_ context.Context, rng string, values [][]any) error {
	f.updated = rng
	f.rows = values
	return nil
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	api := &fakeValues{}
	s := newSlot(api, Config{SheetName: "My 'Records'"})

	if s.Name() != slots.DefaultName {
		t.Fatalf("expected default slot name, got %q", s.Name())
	}
	if _, err := s.Read(ctx); !errors.Is(err, slots.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	payload := `[{"id":1,"result":"ok"}]`
	if err := s.Write(ctx, []byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(api.cleared) != 1 || api.cleared[0] != "'My ''Records'''!A:A" {
		t.Fatalf("unexpected clear range: %v", api.cleared)
	}
	if api.updated != "'My ''Records'''!A1:A1" {
		t.Fatalf("unexpected update range: %q", api.updated)
	}

	got, err := s.Read(ctx)
	if err != nil || string(got) != payload {
		t.Fatalf("unexpected read: %q err=%v", got, err)
	}
}

func TestSlotReadError(t *testing.T) {
	s := newSlot(&fakeValues{failGet: errors.New("quota")}, Config{})
	if _, err := s.Read(context.Background()); err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSplitChunks(t *testing.T) {
	cases := []struct {
		in   string
		size int
		want []string
	}{
		{"", 4, []string{""}},
		{"abcdef", 4, []string{"abcd", "ef"}},
		{"abcd", 4, []string{"abcd"}},
		{"aé", 2, []string{"a", "é"}},
	}
	for _, tc := range cases {
		got := splitChunks(tc.in, tc.size)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Fatalf("splitChunks(%q, %d) = %q, want %q", tc.in, tc.size, got, tc.want)
		}
	}
}

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewSheetsServiceMissingCredentials(t *testing.T) {
	for _, key := range []string{"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	_, err := newSheetsService(context.Background())
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}
