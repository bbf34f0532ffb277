package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessages struct {
	ch        chan kafka.Message
	mu        sync.Mutex
	committed []int64
}

func newFakeMessages(values ...string) *fakeMessages {
	ch := make(chan kafka.Message, len(values))
	for i, v := range values {
		ch <- kafka.Message{Offset: int64(i), Value: []byte(v)}
	}
	close(ch)
	return &fakeMessages{ch: ch}
}

func (f *fakeMessages) Messages() <-chan kafka.Message { return f.ch }

func (f *fakeMessages) CommitOffset(_ context.Context, msg kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, msg.Offset)
	return nil
}

func (f *fakeMessages) offsets() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type payload struct {
	Station string `json:"station"`
}

func TestIterator_DecodesAndSkipsBadMessages(t *testing.T) {
	msgs := newFakeMessages(`{"station":"渋谷"}`, `not json`, `{"station":"新宿"}`)
	it := NewIterator(msgs, DecodeJSON[payload]())

	var got []string
	for f := range it.Objects(context.Background()) {
		got = append(got, f.Data.Station)
		it.Commit(context.Background(), f)
	}

	assert.Equal(t, []string{"渋谷", "新宿"}, got)
	assert.ElementsMatch(t, []int64{0, 1, 2}, msgs.offsets())
}

func TestIterator_StopsOnCancel(t *testing.T) {
	msgs := &fakeMessages{ch: make(chan kafka.Message)}
	ctx, cancel := context.WithCancel(context.Background())
	out := NewIterator(msgs, DecodeJSON[payload]()).Objects(ctx)
	cancel()

	_, ok := <-out
	assert.False(t, ok)
}

const notificationPayload = `{"EventName":"s3:ObjectCreated:Put","Key":"requests/a.json",
"Records":[{"s3":{"bucket":{"name":"requests"},"object":{"key":"2025%2Fshibuya+lunch.json"}}}]}`

func TestDecodeNotification_LoadsUnescapedKey(t *testing.T) {
	var gotBucket, gotKey string
	decode := DecodeNotification(func(_ context.Context, bucket, key string) (payload, error) {
		gotBucket, gotKey = bucket, key
		return payload{Station: "渋谷"}, nil
	})

	v, err := decode(context.Background(), kafka.Message{Value: []byte(notificationPayload)})
	require.NoError(t, err)
	assert.Equal(t, "渋谷", v.Station)
	assert.Equal(t, "requests", gotBucket)
	assert.Equal(t, "2025/shibuya lunch.json", gotKey)
}

func TestDecodeNotification_Errors(t *testing.T) {
	loadErr := errors.New("boom")
	decode := DecodeNotification(func(context.Context, string, string) (payload, error) {
		return payload{}, loadErr
	})

	_, err := decode(context.Background(), kafka.Message{Value: []byte(`{"Records":[]}`)})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = decode(context.Background(), kafka.Message{Value: []byte(notificationPayload)})
	assert.ErrorIs(t, err, loadErr)

	_, err = decode(context.Background(), kafka.Message{Value: []byte(`{`)})
	assert.Error(t, err)
}

func TestSniff_RoutesByShape(t *testing.T) {
	notif := func(context.Context, kafka.Message) (payload, error) { return payload{Station: "notif"}, nil }
	decode := Sniff(notif, DecodeJSON[payload]())

	v, err := decode(context.Background(), kafka.Message{Value: []byte(notificationPayload)})
	require.NoError(t, err)
	assert.Equal(t, "notif", v.Station)

	v, err = decode(context.Background(), kafka.Message{Value: []byte(`{"station":"上野"}`)})
	require.NoError(t, err)
	assert.Equal(t, "上野", v.Station)
}
