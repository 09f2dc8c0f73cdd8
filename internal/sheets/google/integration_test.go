//go:build integration

package google

import (
	"context"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_AppendHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := New(ctx, spreadsheetID, os.Getenv("GOOGLE_HISTORY_SHEET_NAME"))
	if err != nil {
		t.Skipf("credentials not configured: %v", err)
	}

	now := time.Now().UTC()
	item := core.HistoryItem{
		ID:    uuid.NewString(),
		Date:  now,
		Total: core.MustMoney("1.23"),
		Expenses: []core.Expense{{
			ID:        uuid.NewString(),
			Amount:    core.MustMoney("1.23"),
			Category:  "Other",
			Note:      "integration test",
			Date:      now,
			AccountID: "integration",
		}},
	}

	ref, err := client.AppendHistory(ctx, item, currency.USD)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	t.Logf("appended %s", ref)

	ids, err := client.ArchivedIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !slices.Contains(ids, item.ID) {
		t.Errorf("appended history %s not listed", item.ID)
	}
}
