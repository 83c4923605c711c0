package services

import (
	"strings"
	"testing"

	"github.com/stockpod/stockpod-core/internal/app/models"
)

func seedUsageFixtures(t *testing.T, s *testServices) (*models.Item, *models.Item) {
	t.Helper()
	widget := createTestItem(t, s.db, "Widget", 100, nil)
	cable := createTestItem(t, s.db, "Cable", 100, nil)
	createTestBox(t, s.db, "tok-report", "Van 1", widget.ID, cable.ID)

	record := func(itemID, job string, qty float64, device string) {
		req := &models.RecordTransactionRequest{
			Type:      models.TransactionTypeUsage,
			BoxToken:  "tok-report",
			ItemID:    &itemID,
			Quantity:  qty,
			JobNumber: &job,
		}
		if device != "" {
			req.DeviceID = &device
		}
		if _, err := s.ledger.Record(req); err != nil {
			t.Fatalf("failed to seed usage: %v", err)
		}
	}

	record(widget.ID.String(), "J100", 3, "van-1-phone")
	record(widget.ID.String(), "J100", 2, "van-1-phone")
	record(cable.ID.String(), "J100", 10, "van-2-phone")
	record(widget.ID.String(), "J200", 7, "")

	// RESTOCK must never show up in the usage report.
	if _, err := s.ledger.Record(&models.RecordTransactionRequest{
		Type:     models.TransactionTypeRestock,
		BoxToken: "tok-report",
		ItemID:   ptrString(widget.ID.String()),
		Quantity: 50,
	}); err != nil {
		t.Fatalf("failed to seed restock: %v", err)
	}

	return widget, cable
}

func TestUsageReportGroupsByJob(t *testing.T) {
	s := newTestServices(t)
	widget, _ := seedUsageFixtures(t, s)

	report, err := s.report.UsageReport(&models.UsageReportQuery{})
	if err != nil {
		t.Fatalf("failed to build report: %v", err)
	}
	if report.TransactionCount != 4 {
		t.Fatalf("expected 4 usage transactions, got %d", report.TransactionCount)
	}
	if len(report.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(report.Jobs))
	}

	var j100 *models.UsageJob
	for i := range report.Jobs {
		if report.Jobs[i].JobNumber == "J100" {
			j100 = &report.Jobs[i]
		}
	}
	if j100 == nil {
		t.Fatal("expected job J100 in report")
	}
	if j100.TotalTransactions != 3 {
		t.Fatalf("expected 3 transactions on J100, got %d", j100.TotalTransactions)
	}
	if len(j100.DeviceIDs) != 2 {
		t.Fatalf("expected 2 distinct devices on J100, got %v", j100.DeviceIDs)
	}
	for _, jobItem := range j100.Items {
		if jobItem.ItemID == widget.ID && jobItem.TotalQty != 5 {
			t.Fatalf("expected Widget total 5 on J100, got %d", jobItem.TotalQty)
		}
	}
}

func TestUsageReportFilters(t *testing.T) {
	s := newTestServices(t)
	widget, _ := seedUsageFixtures(t, s)

	report, err := s.report.UsageReport(&models.UsageReportQuery{JobNumber: "j2"})
	if err != nil {
		t.Fatalf("failed to filter by job: %v", err)
	}
	if len(report.Jobs) != 1 || report.Jobs[0].JobNumber != "J200" {
		t.Fatalf("case-insensitive substring match should find J200, got %+v", report.Jobs)
	}

	report, err = s.report.UsageReport(&models.UsageReportQuery{ItemID: widget.ID.String()})
	if err != nil {
		t.Fatalf("failed to filter by item: %v", err)
	}
	if report.TransactionCount != 3 {
		t.Fatalf("expected 3 Widget usages, got %d", report.TransactionCount)
	}

	report, err = s.report.UsageReport(&models.UsageReportQuery{DeviceID: "van-2-phone"})
	if err != nil {
		t.Fatalf("failed to filter by device: %v", err)
	}
	if report.TransactionCount != 1 {
		t.Fatalf("expected 1 transaction from van-2-phone, got %d", report.TransactionCount)
	}

	if _, err := s.report.UsageReport(&models.UsageReportQuery{DateFrom: "17/08/2026"}); err == nil {
		t.Fatal("expected malformed date to be rejected")
	}
}

func TestUsageReportCSVHasHeaderAndRows(t *testing.T) {
	s := newTestServices(t)
	seedUsageFixtures(t, s)

	data, err := s.report.UsageReportCSV(&models.UsageReportQuery{})
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "Job Number,Item Name,Quantity,Unit,Date,Engineer" {
		t.Fatalf("unexpected CSV header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "J100,") {
		t.Fatalf("rows should be ordered by job number, got %q", lines[1])
	}
}

func TestListTransactionsPaginatesNewestFirst(t *testing.T) {
	s := newTestServices(t)
	seedUsageFixtures(t, s)

	page, err := s.report.ListTransactions(&models.PaginationRequest{Page: 1, Limit: 3})
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if page.TotalItems != 5 {
		t.Fatalf("expected 5 ledger entries, got %d", page.TotalItems)
	}
	if len(page.Items) != 3 || !page.HasNext {
		t.Fatalf("unexpected first page: %d items, hasNext=%v", len(page.Items), page.HasNext)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].CreatedAt.After(page.Items[i-1].CreatedAt) {
			t.Fatal("transactions must be ordered newest first")
		}
	}
}

func TestGetTransactionIncludesHistory(t *testing.T) {
	s := newTestServices(t)
	item := createTestItem(t, s.db, "Widget", 20, nil)
	createTestBox(t, s.db, "tok-detail", "Van 1", item.ID)

	resp := recordUsage(t, s, "tok-detail", 5, "J100")
	if _, err := s.ledger.Amend(resp.TransactionID.String(), &models.AmendTransactionRequest{
		Quantity: 6,
	}); err != nil {
		t.Fatalf("failed to amend: %v", err)
	}

	detail, err := s.report.GetTransaction(resp.TransactionID.String())
	if err != nil {
		t.Fatalf("failed to get transaction detail: %v", err)
	}
	if detail.Transaction.ID != resp.TransactionID {
		t.Fatalf("unexpected transaction in detail: %+v", detail.Transaction)
	}
	if detail.Transaction.Quantity != 6 {
		t.Fatalf("detail should show the amended quantity, got %d", detail.Transaction.Quantity)
	}
	if len(detail.History) != 2 {
		t.Fatalf("expected creation + edit in history, got %d", len(detail.History))
	}

	if _, err := s.report.GetTransaction("00000000-0000-0000-0000-000000000000"); err == nil {
		t.Fatal("expected unknown transaction to be not found")
	}
}
