package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:               "rep-1",
		GeneratedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		TransactionCount: 42,
		MonthlyLeak:      58.745,
		AnnualSavings:    704.94,
		Disclaimer:       "Estimates only.",
		TopLeaks: []model.Leak{
			{Category: model.LeakSubscription, Merchant: "NETFLIX", Explanation: "Recurring charge", MonthlyCost: 15.99, YearlyCost: 191.88},
		},
		Subscriptions: []model.Subscription{
			{Merchant: "NETFLIX", LastDate: "2024-02-15", MonthlyCost: 15.99, AnnualCost: 191.88, Confidence: 0.853, Occurrences: 3},
		},
		CategorySummary: []model.CategorySummary{
			{
				Category:         model.CategoryDining,
				TopMerchants:     []model.MerchantTotal{{Merchant: "UBER EATS", Total: 90}, {Merchant: "", Total: 5}},
				Total:            95,
				Percent:          61.26,
				TransactionCount: 4,
			},
		},
		EasyWins:     []model.EasyWin{{Title: "Cancel Netflix", Action: "Cancel it", EstimatedYearlySavings: 191.88}},
		RecoveryPlan: []string{"Week 1: cancel"},
	}
}

func TestBuildReportData(t *testing.T) {
	data := buildReportData(sampleReport())

	assert.Equal(t, "rep-1", data.ReportID)
	assert.Equal(t, "2024-03-01T12:00:00Z", data.GeneratedAt)
	assert.Equal(t, "58.75", data.MonthlyLeak.StringFixed(2))
	assert.Equal(t, 42, data.Transactions)

	require.Len(t, data.Leaks, 1)
	assert.Equal(t, "Netflix", data.Leaks[0].Merchant)

	require.Len(t, data.Subscriptions, 1)
	assert.Equal(t, 85, data.Subscriptions[0].Confidence)

	require.Len(t, data.Categories, 1)
	assert.Equal(t, "Uber Eats, Unknown", data.Categories[0].TopMerchants)
	assert.Equal(t, "61.3", data.Categories[0].Percent.String())
	assert.Equal(t, string(model.CategoryDining), data.Categories[0].Category)
}

func TestPrepareReportData(t *testing.T) {
	values, headers := prepareReportData(buildReportData(sampleReport()))

	assert.Equal(t, []any{"Spending Leak Report", "2024-03-01T12:00:00Z"}, values[0])
	assert.Equal(t, []any{"Report ID", "rep-1"}, values[1])

	titles := make([]string, 0, len(headers))
	for _, idx := range headers {
		require.NotEmpty(t, values[idx])
		titles = append(titles, values[idx][0].(string))
	}
	assert.Equal(t, []string{"Top Leaks", "Subscriptions", "Spending by Category", "Easy Wins", "Recovery Plan"}, titles)

	// The row after the leaks header names the columns, then the data.
	leakHeader := headers[0]
	assert.Equal(t, "Merchant", values[leakHeader+1][0])
	assert.Equal(t, []any{"Netflix", model.LeakSubscription, 15.99, 191.88, "Recurring charge"}, values[leakHeader+2])

	assert.Equal(t, []any{"Estimates only."}, values[len(values)-1])
}

func TestPrepareReportDataEmptySections(t *testing.T) {
	values, headers := prepareReportData(ReportData{ReportID: "empty"})
	assert.Empty(t, headers)
	assert.Len(t, values, 5)
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

func TestWriterWrite(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	}))
	defer srv.Close()

	ctx := context.Background()
	svc, err := sheets.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.SpreadsheetID = "sheet-1"
	cfg.RetryAttempts = 1
	cfg.RetryDelay = time.Millisecond

	writer := NewWriterWithService(svc, cfg, nil)
	require.NoError(t, writer.Write(ctx, sampleReport()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 4)

	assert.Equal(t, http.MethodGet, requests[0].method)
	assert.True(t, strings.HasSuffix(requests[0].path, "/spreadsheets/sheet-1"))

	assert.Contains(t, requests[1].path, ":clear")

	assert.Equal(t, http.MethodPut, requests[2].method)
	assert.Contains(t, requests[2].body, "Spending Leak Report")
	assert.Contains(t, requests[2].body, "Netflix")

	assert.Contains(t, requests[3].path, ":batchUpdate")
}

func TestWriterWriteNilReport(t *testing.T) {
	writer := NewWriterWithService(nil, DefaultConfig(), nil)
	assert.Error(t, writer.Write(context.Background(), nil))
}
