package wire

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-hypercube/pkg/types"
)

func TestRequest_Decode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"create", `{"command":"CREATE","topic":"News"}`, CreateTopic{Name: "News"}},
		{"publish", `{"command":"PUBLISH","topic":"News","message":"Breaking news!"}`, Publish{Name: "News", Message: "Breaking news!"}},
		{"publish empty message", `{"command":"PUBLISH","topic":"News","message":""}`, Publish{Name: "News"}},
		{"delete", `{"command":"DELETE","topic":"News"}`, DeleteTopic{Name: "News"}},
		{"subscribe", `{"command":"SUBSCRIBE","topic":"News"}`, Subscribe{Name: "News"}},
		{"pull", `{"command":"PULL","topic":"News"}`, Pull{Name: "News"}},
		// 非 PUBLISH 的 message 字段被忽略
		{"extra message", `{"command":"PULL","topic":"News","message":"x"}`, Pull{Name: "News"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ReadRequest(strings.NewReader(tt.in), 1<<20)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Command)
			assert.Empty(t, req.ID)
		})
	}
}

func TestRequest_DecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"not json", `hello`, ErrMalformed},
		{"truncated", `{"command":"CREATE","topic":"Ne`, ErrMalformed},
		{"missing command", `{"topic":"News"}`, ErrMalformed},
		{"missing topic", `{"command":"CREATE"}`, ErrMalformed},
		{"empty topic", `{"command":"CREATE","topic":""}`, ErrMalformed},
		{"publish without message", `{"command":"PUBLISH","topic":"News"}`, ErrMalformed},
		{"wrong type", `{"command":"CREATE","topic":42}`, ErrMalformed},
		{"unknown command", `{"command":"LIST","topic":"News"}`, ErrUnknownCommand},
		{"lower-case command", `{"command":"create","topic":"News"}`, ErrUnknownCommand},
		{"padded command", `{"command":" PULL","topic":"News"}`, ErrUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRequest(strings.NewReader(tt.in), 1<<20)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadRequest_Limit(t *testing.T) {
	big := `{"command":"PUBLISH","topic":"t","message":"` + strings.Repeat("x", 200) + `"}`

	_, err := ReadRequest(strings.NewReader(big), 100)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, ErrTooLarge)

	// 恰好等于上限，且后面还有换行
	req, err := ReadRequest(strings.NewReader(big+"\n"), int64(len(big)))
	require.NoError(t, err)
	assert.Equal(t, types.VerbPublish, req.Command.Verb())
}

// 服务端只读一个 JSON 值，不等待 EOF
func TestReadRequest_NoEOFNeeded(t *testing.T) {
	r := strings.NewReader(`{"command":"SUBSCRIBE","topic":"a"}{"garbage"`)
	req, err := ReadRequest(r, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, Subscribe{Name: "a"}, req.Command)
}

func TestRequest_Encode(t *testing.T) {
	req := NewRequest(Publish{Name: "News", Message: "Breaking news!"})
	_, err := uuid.Parse(req.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRequest(&buf, req))
	assert.JSONEq(t,
		`{"command":"PUBLISH","topic":"News","message":"Breaking news!","id":"`+req.ID+`"}`,
		buf.String())

	got, err := ReadRequest(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, req, got)

	data, err := json.Marshal(Request{Command: Pull{Name: "News"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"PULL","topic":"News"}`, string(data))

	_, err = json.Marshal(Request{})
	assert.Error(t, err)
}

func TestResponse_Codec(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		json string
	}{
		{"status", StatusResponse(types.StatusCreated), `{"status":"Topic created"}`},
		{"not found", StatusResponse(types.StatusNotFound), `{"status":"Topic not found"}`},
		{"messages", MessagesResponse([]string{"a", "b"}), `{"messages":["a","b"]}`},
		{"empty messages", MessagesResponse(nil), `{"messages":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteResponse(&buf, tt.resp))
			assert.JSONEq(t, tt.json, buf.String())

			got, err := ReadResponse(&buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.resp, got)
			assert.Equal(t, tt.resp.IsMessages(), got.IsMessages())
		})
	}

	_, err := ReadResponse(strings.NewReader(`{}`), 0)
	assert.ErrorIs(t, err, ErrBadResponse)
	_, err = ReadResponse(strings.NewReader(`nope`), 0)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestNewCommand(t *testing.T) {
	for _, v := range types.Verbs() {
		cmd, err := NewCommand(v, "t", "m")
		require.NoError(t, err)
		assert.Equal(t, v, cmd.Verb())
		assert.Equal(t, "t", cmd.Topic())
	}

	_, err := NewCommand(types.Verb("LIST"), "t", "")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}
