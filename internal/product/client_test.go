package product

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRequester struct {
	subjects [][2]string // subject, payload
	reply    []byte
	err      error
}

func (f *fakeRequester) RequestWithContext(_ context.Context, subj string, data []byte) (*nats.Msg, error) {
	f.subjects = append(f.subjects, [2]string{subj, string(data)})
	if f.err != nil {
		return nil, f.err
	}
	return &nats.Msg{Data: f.reply}, nil
}

func TestProductsByIDs(t *testing.T) {
	reply, err := json.Marshal([]map[string]any{
		{"id": 1, "name": "Teclado", "price": 10.5, "available": true},
		{"id": 2, "name": "Mouse", "price": 5, "available": true},
	})
	require.NoError(t, err)

	fake := &fakeRequester{reply: reply}
	client := newClient(fake, zap.NewNop())

	products, err := client.ProductsByIDs(t.Context(), []int64{1, 2}, false)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "Teclado", products[1].Name)
	assert.True(t, products[1].Price.Equal(decimal.NewFromFloat(10.5)))
	assert.Equal(t, "Mouse", products[2].Name)
	assert.True(t, products[2].Price.Equal(decimal.NewFromInt(5)))

	require.Len(t, fake.subjects, 1)
	assert.Equal(t, lookupSubject, fake.subjects[0][0])
}

func TestProductsByIDs_deduplicatesIDs(t *testing.T) {
	fake := &fakeRequester{reply: []byte(`[]`)}
	client := newClient(fake, zap.NewNop())

	_, err := client.ProductsByIDs(t.Context(), []int64{7, 7, 9, 7}, false)
	require.NoError(t, err)

	require.Len(t, fake.subjects, 1)

	var sent lookupRequest
	require.NoError(t, json.Unmarshal([]byte(fake.subjects[0][1]), &sent))
	assert.Equal(t, []int64{7, 9}, sent.IDs)
	assert.False(t, sent.WithDeleted)
}

func TestProductsByIDs_withDeleted(t *testing.T) {
	fake := &fakeRequester{reply: []byte(`[]`)}
	client := newClient(fake, zap.NewNop())

	_, err := client.ProductsByIDs(t.Context(), []int64{3}, true)
	require.NoError(t, err)

	var sent lookupRequest
	require.NoError(t, json.Unmarshal([]byte(fake.subjects[0][1]), &sent))
	assert.True(t, sent.WithDeleted)
}

func TestProductsByIDs_missingIDsAreTolerated(t *testing.T) {
	reply, err := json.Marshal([]map[string]any{
		{"id": 1, "name": "Teclado", "price": 10, "available": true},
	})
	require.NoError(t, err)

	fake := &fakeRequester{reply: reply}
	client := newClient(fake, zap.NewNop())

	products, err := client.ProductsByIDs(t.Context(), []int64{1, 42}, false)
	require.NoError(t, err)

	require.Len(t, products, 1)
	_, ok := products[42]
	assert.False(t, ok)
}

func TestProductsByIDs_transportErrorWrapped(t *testing.T) {
	fake := &fakeRequester{err: nats.ErrNoResponders}
	client := newClient(fake, zap.NewNop())

	_, err := client.ProductsByIDs(t.Context(), []int64{1}, false)
	require.ErrorIs(t, err, ErrUnavailable)
	// the raw broker error type never crosses the boundary
	require.NotErrorIs(t, err, nats.ErrNoResponders)
}

func TestProductsByIDs_badResponseWrapped(t *testing.T) {
	fake := &fakeRequester{reply: []byte(`{"not":"an array"}`)}
	client := newClient(fake, zap.NewNop())

	_, err := client.ProductsByIDs(t.Context(), []int64{1}, false)
	require.ErrorIs(t, err, ErrUnavailable)
}
