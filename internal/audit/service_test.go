package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinshop/internal/events"
)

func TestService_Close(t *testing.T) {
	var tests = []struct {
		name string
		svc  func(t *testing.T) *Service
	}{
		{
			name: "close without file",
			svc: func(t *testing.T) *Service {
				return NewService()
			},
		},
		{
			name: "close with file",
			svc: func(t *testing.T) *Service {
				svc, err := NewServiceWithFile(filepath.Join(t.TempDir(), "audit.jsonl"))
				require.NoError(t, err)
				return svc
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.svc(t)
			require.NoError(t, svc.Close())
			require.NoError(t, svc.Close())
		})
	}
}

func TestService_Record(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "audit.jsonl")

	svc, err := NewServiceWithFile(path)
	require.NoError(t, err)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	require.NoError(t, svc.Record(ctx, events.PurchaseCreated{OrderID: "TKT-AB12C", Amount: 770, Price: 7900}))
	require.NoError(t, svc.Record(ctx, events.PurchaseSucceeded{OrderID: "TKT-AB12C", Amount: 770, Balance: 770}))
	require.Error(t, svc.Record(ctx, nil))
	require.NoError(t, svc.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, "purchase.created", entries[0].Event)
	assert.Equal(t, "TKT-AB12C", entries[0].OrderID)
	assert.True(t, at.Equal(entries[0].At))
	assert.Equal(t, "purchase.succeeded", entries[1].Event)

	var payload events.PurchaseSucceeded
	require.NoError(t, json.Unmarshal(entries[1].Payload, &payload))
	assert.Equal(t, int64(770), payload.Balance)
}

func TestService_RecordWithoutFile(t *testing.T) {
	require.NoError(t, NewService().Record(context.Background(), events.PaymentInitiated{OrderID: "TKT-1"}))
}
