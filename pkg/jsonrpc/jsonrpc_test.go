package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadIDUnique(t *testing.T) {
	seen := make(map[int64]struct{}, 500)
	for i := 0; i < 500; i++ {
		id := PayloadID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("waku_subscribe", map[string]string{"topic": "abc"})
	require.NoError(t, err)

	assert.Equal(t, Version, req.JSONRPC)
	assert.Equal(t, "waku_subscribe", req.Method)
	assert.NotZero(t, req.ID)
	assert.JSONEq(t, `{"topic":"abc"}`, string(req.Params))

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":`+jsonNumber(req.ID)+`,"jsonrpc":"2.0","method":"waku_subscribe","params":{"topic":"abc"}}`, string(raw))
}

func TestNewRequestBadParams(t *testing.T) {
	_, err := NewRequest("waku_publish", map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)
}

func TestNewResultAndError(t *testing.T) {
	res, err := NewResult(42, true)
	require.NoError(t, err)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"jsonrpc":"2.0","result":true}`, string(raw))

	errRes := NewError(43, CodeInvalidParams, "missing topic")
	raw, err = json.Marshal(errRes)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":43,"jsonrpc":"2.0","error":{"code":-32602,"message":"missing topic"}}`, string(raw))
	assert.Equal(t, "jsonrpc error -32602: missing topic", errRes.Error.Error())
}

func TestParse(t *testing.T) {
	t.Run("request", func(t *testing.T) {
		f, err := Parse([]byte(`{"id":7,"jsonrpc":"2.0","method":"waku_subscription","params":{"id":"s1"}}`))
		require.NoError(t, err)
		require.True(t, f.IsRequest())
		assert.Equal(t, int64(7), f.Request.ID)
		assert.Equal(t, "waku_subscription", f.Request.Method)
		assert.JSONEq(t, `{"id":"s1"}`, string(f.Request.Params))
	})

	t.Run("result response", func(t *testing.T) {
		f, err := Parse([]byte(`{"id":8,"jsonrpc":"2.0","result":"sub-1"}`))
		require.NoError(t, err)
		require.False(t, f.IsRequest())
		assert.JSONEq(t, `"sub-1"`, string(f.Response.Result))
	})

	t.Run("error response", func(t *testing.T) {
		f, err := Parse([]byte(`{"id":9,"jsonrpc":"2.0","error":{"code":-32000,"message":"nope"}}`))
		require.NoError(t, err)
		require.NotNil(t, f.Response.Error)
		assert.Equal(t, -32000, f.Response.Error.Code)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, in := range []string{`{`, `[]`, `{"jsonrpc":"2.0","method":"x"}`, `{"id":1,"jsonrpc":"2.0"}`} {
			_, err := Parse([]byte(in))
			assert.Error(t, err, in)
		}
	})
}

func jsonNumber(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
