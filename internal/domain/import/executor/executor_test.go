package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/materializer"
)

func testBatch() *materializer.Batch {
	return &materializer.Batch{
		AccountID: uuid.New(),
		FileName:  "statement.csv",
		FileKind:  "csv",
		Transactions: []materializer.TransactionPayload{
			{RowNumber: 1, Date: "2024-01-15", Type: "EXPENSE", Description: "Coffee"},
		},
	}
}

func TestClient_Submit(t *testing.T) {
	t.Run("posts the batch and decodes counts", func(t *testing.T) {
		var gotPath, gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAuth = r.Header.Get("Authorization")

			var batch materializer.Batch
			require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
			assert.Len(t, batch.Transactions, 1)

			json.NewEncoder(w).Encode(BatchResult{SuccessCount: 1, FailedCount: 0})
		}))
		defer server.Close()

		client := NewClient(server.URL, "secret-token", 5*time.Second, nil)
		result, err := client.Submit(context.Background(), testBatch())

		require.NoError(t, err)
		assert.Equal(t, 1, result.SuccessCount)
		assert.Equal(t, 0, result.FailedCount)
		assert.Equal(t, "/v1/imports/transactions", gotPath)
		assert.Equal(t, "Bearer secret-token", gotAuth)
	})

	t.Run("decodes optional failed row numbers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(BatchResult{SuccessCount: 2, FailedCount: 1, FailedRows: []int{7}})
		}))
		defer server.Close()

		client := NewClient(server.URL, "", 5*time.Second, nil)
		result, err := client.Submit(context.Background(), testBatch())

		require.NoError(t, err)
		assert.Equal(t, []int{7}, result.FailedRows)
	})

	t.Run("non-2xx status is batch-fatal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, "", 5*time.Second, nil)
		_, err := client.Submit(context.Background(), testBatch())
		assert.ErrorIs(t, err, ErrSubmissionFailed)
	})

	t.Run("unreachable executor is batch-fatal", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "", time.Second, nil)
		_, err := client.Submit(context.Background(), testBatch())
		assert.ErrorIs(t, err, ErrSubmissionFailed)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		client := NewClient(server.URL, "", 5*time.Second, nil)
		_, err := client.Submit(ctx, testBatch())
		assert.Error(t, err)
	})
}
