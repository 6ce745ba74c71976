package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/signup-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable answers GetItem, PutItem and DeleteItem for a table keyed by "recipient".
type fakeTable struct {
	mu    sync.Mutex
	items map[string]json.RawMessage
}

func (f *fakeTable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key  map[string]map[string]string `json:"Key"`
		Item json.RawMessage              `json:"Item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	op := r.Header.Get("X-Amz-Target")
	switch {
	case strings.HasSuffix(op, ".PutItem"):
		var item map[string]map[string]interface{}
		_ = json.Unmarshal(body.Item, &item)
		key, _ := item["recipient"]["S"].(string)
		f.items[key] = body.Item
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(op, ".GetItem"):
		item, ok := f.items[body.Key["recipient"]["S"]]
		if !ok {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"Item":` + string(item) + `}`))
	case strings.HasSuffix(op, ".DeleteItem"):
		delete(f.items, body.Key["recipient"]["S"])
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unsupported "+op, http.StatusBadRequest)
	}
}

func newFakeCodeStore(t *testing.T) *CodeStore {
	t.Helper()
	srv := httptest.NewServer(&fakeTable{items: map[string]json.RawMessage{}})
	t.Cleanup(srv.Close)
	client := dynamodb.New(dynamodb.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(srv.URL),
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
	return NewCodeStore(client, "pending_verifications")
}

func TestCodeStore_MissingIsNotFound(t *testing.T) {
	s := newFakeCodeStore(t)
	_, err := s.Get(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCodeStore_SetReplacesAndDeletes(t *testing.T) {
	ctx := context.Background()
	s := newFakeCodeStore(t)

	require.NoError(t, s.Set(ctx, &domain.PendingVerification{Recipient: "a@b.com", Code: "482913", IssuedAt: 1, ExpiresAt: 601}))
	require.NoError(t, s.Set(ctx, &domain.PendingVerification{Recipient: "a@b.com", Code: "117650", IssuedAt: 2, ExpiresAt: 602}))

	v, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "117650", v.Code)
	assert.Equal(t, int64(602), v.ExpiresAt)

	require.NoError(t, s.Delete(ctx, "a@b.com"))
	_, err = s.Get(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
