package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listUUID = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	taskUUID = "9b2e7c1a-5d3f-4e8b-a1c2-0d4e6f8a9b10"
)

func TestDecodeResponse_List(t *testing.T) {
	resp, err := DecodeResponse(TypeFindOrCreateList, []byte(`{"todoListUuid":"`+listUUID+`"}`))
	require.NoError(t, err)
	require.IsType(t, &ListResponse{}, resp)
	assert.Equal(t, listUUID, resp.(*ListResponse).TodoListUUID)
}

func TestDecodeResponse_TaskAdded(t *testing.T) {
	resp, err := DecodeResponse(TypeAddTask, []byte(`{"taskUuid":"`+taskUUID+`"}`))
	require.NoError(t, err)
	assert.Equal(t, &TaskAddedResponse{TaskUUID: taskUUID}, resp)
}

func TestDecodeResponse_Tasks(t *testing.T) {
	body := `{"tasks":[{"uuid":"` + taskUUID + `","name":"milk","completed":true}]}`
	for _, kind := range []Type{TypeListTasks, TypeFilterTasks} {
		resp, err := DecodeResponse(kind, []byte(body))
		require.NoError(t, err)
		assert.Equal(t, &TasksResponse{Tasks: []TaskInfo{{UUID: taskUUID, Name: "milk", Completed: true}}}, resp)
	}
}

func TestDecodeResponse_EmptyBodyIsSuccessForVoidKinds(t *testing.T) {
	for _, kind := range []Type{TypeDeleteTask, TypeToggleTaskCompletion} {
		resp, err := DecodeResponse(kind, []byte("  \n"))
		require.NoError(t, err)
		assert.Equal(t, Empty{}, resp)
	}
}

func TestDecodeResponse_EmptyBodyRejectedForPayloadKinds(t *testing.T) {
	_, err := DecodeResponse(TypeAddTask, nil)
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, TypeAddTask, se.Type)
}

func TestDecodeResponse_ErrorObject(t *testing.T) {
	body := `{"timestamp":"2021-03-04T10:00:00.000+00:00","status":400,"error":"Bad Request","message":"Please specify a non-null, non-whitespace task name!"}`
	resp, err := DecodeResponse(TypeAddTask, []byte(body))
	require.NoError(t, err)
	er, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, 400, er.Status)
	assert.Equal(t, "Bad Request", er.Error)
	assert.Equal(t, "Please specify a non-null, non-whitespace task name!", er.Message)
	assert.True(t, er.Timestamp.Equal(time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC)))
}

func TestDecodeResponse_ErrorWinsForAnyKind(t *testing.T) {
	resp, err := DecodeResponse(TypeDeleteTask, []byte(`{"error":true,"status":"500","message":42}`))
	require.NoError(t, err)
	er := resp.(*ErrorResponse)
	assert.Equal(t, 500, er.Status)
	assert.Equal(t, "42", er.Message)
}

func TestDecodeResponse_FalsyErrorIsIgnored(t *testing.T) {
	for _, body := range []string{
		`{"error":false}`,
		`{"error":0}`,
		`{"error":""}`,
		`{"error":null}`,
	} {
		resp, err := DecodeResponse(TypeToggleTaskCompletion, []byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, Ack{}, resp, body)
	}
}

func TestDecodeResponse_EpochMillisTimestamp(t *testing.T) {
	resp, err := DecodeResponse(TypeDeleteTask, []byte(`{"error":"Bad Request","status":400,"timestamp":1614852000000}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1614852000000), resp.(*ErrorResponse).Timestamp.UnixMilli())
}

func TestDecodeResponse_SchemaViolation(t *testing.T) {
	_, err := DecodeResponse(TypeListTasks, []byte(`{"tasks":[{"uuid":"`+taskUUID+`","name":"x"}]}`))
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "/tasks/0", se.Path)
}

func TestDecodeResponse_OpaqueIDs(t *testing.T) {
	resp, err := DecodeResponse(TypeFindOrCreateList, []byte(`{"todoListUuid":"list-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "list-1", resp.(*ListResponse).TodoListUUID)

	resp, err = DecodeResponse(TypeListTasks, []byte(`{"tasks":[{"uuid":"t1","name":"x","completed":false}]}`))
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.(*TasksResponse).Tasks[0].UUID)
}

func TestDecodeResponse_EmptyID(t *testing.T) {
	_, err := DecodeResponse(TypeAddTask, []byte(`{"taskUuid":""}`))
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "/taskUuid", se.Path)
}

func TestDecodeResponse_AbsentErrorMembers(t *testing.T) {
	resp, err := DecodeResponse(TypeDeleteTask, []byte(`{"error":"Bad Request"}`))
	require.NoError(t, err)
	er := resp.(*ErrorResponse)
	assert.True(t, er.NoStatus)
	assert.True(t, er.NoMessage)

	resp, err = DecodeResponse(TypeDeleteTask, []byte(`{"error":"Bad Request","status":400,"message":""}`))
	require.NoError(t, err)
	er = resp.(*ErrorResponse)
	assert.False(t, er.NoStatus)
	assert.False(t, er.NoMessage)
}

func TestDecodeResponse_MalformedJSON(t *testing.T) {
	_, err := DecodeResponse(TypeListTasks, []byte(`<html>`))
	require.Error(t, err)
	var se *SchemaError
	assert.False(t, errors.As(err, &se))
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(false))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(""))
	assert.True(t, truthy("x"))
	assert.True(t, truthy(1.0))
	assert.True(t, truthy(map[string]any{}))
	assert.True(t, truthy([]any{}))
}
