package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pocket/internal/core"
	"pocket/internal/currency"
)

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ", "History")
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	clearCredentials(t)

	_, err := New(context.Background(), "sheet-id", "")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", filepath.Join(t.TempDir(), "absent.json"))

	_, err := New(context.Background(), "sheet-id", "")
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServiceAccountCredentialsPrecedence(t *testing.T) {
	clearCredentials(t)
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	data, source, err := serviceAccountCredentials()
	if err != nil || source != "file" || string(data) != `{"from":"file"}` {
		t.Fatalf("file credentials: %q %q %v", data, source, err)
	}

	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"from":"env"}`)
	data, source, err = serviceAccountCredentials()
	if err != nil || source != "inline" || string(data) != `{"from":"env"}` {
		t.Fatalf("inline credentials: %q %q %v", data, source, err)
	}
}

func TestClientWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "test", historySheet: "History"}

	_, err := c.AppendHistory(context.Background(), core.HistoryItem{
		ID:       "h1",
		Expenses: []core.Expense{{ID: "e1", Amount: core.MustMoney("1")}},
	}, currency.USD)
	if err == nil {
		t.Error("expected error when service is not initialized")
	}
	if _, err := c.ArchivedIDs(context.Background()); err == nil {
		t.Error("expected error when service is not initialized")
	}
}

func TestArchivedIDs(t *testing.T) {
	values := [][]any{
		{"HistoryID", "ResetDate"},
		{"h2", "x"},
		{"h2", "y"},
		{},
		{"  "},
		{"h1"},
	}

	got := archivedIDs(values)
	if len(got) != 2 || got[0] != "h2" || got[1] != "h1" {
		t.Errorf("archivedIDs = %v", got)
	}
}
