package s3

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3bridge/storage/mocks"
	"s3bridge/storage/types"
)

var testRef = types.ObjectRef{Bucket: "bucket-a", Key: "report.pdf"}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"head 404", mocks.NotFoundError("HeadObject"), true},
		{"404 without code", mocks.ServiceError("HeadObject", http.StatusNotFound, "", "", "", ""), true},
		{"NotFound code on other status", mocks.ServiceError("HeadObject", http.StatusBadRequest, "NotFound", "", "", ""), true},
		{"access denied", mocks.ServiceError("HeadObject", http.StatusForbidden, "AccessDenied", "Access Denied", "", ""), false},
		{"NoSuchBucket code is not enough", mocks.ServiceError("HeadObject", http.StatusBadRequest, "NoSuchBucket", "", "", ""), false},
		{"plain error", errors.New("dial tcp: connection refused"), false},
		{"wrapped 404", fmt.Errorf("call failed: %w", mocks.NotFoundError("HeadObject")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestNewErrorInfo_ServiceError(t *testing.T) {
	err := mocks.ServiceError("GetObject", http.StatusForbidden, "AccessDenied", "Access Denied", "REQ123", "Mon, 02 Jan 2006 15:04:05 GMT")

	info := NewErrorInfo(testRef, "eu-west-1", err)

	require.NotNil(t, info)
	assert.Equal(t, testRef, info.ObjectRef)
	assert.Equal(t, "eu-west-1", info.Region)
	assert.Equal(t, types.Some("AccessDenied"), info.Code)
	assert.Equal(t, types.Some("Access Denied"), info.Message)
	assert.Equal(t, types.Some(http.StatusForbidden), info.StatusCode)
	assert.Equal(t, types.Some("REQ123"), info.RequestID)
	assert.Equal(t, types.Some("Mon, 02 Jan 2006 15:04:05 GMT"), info.Time)
	assert.False(t, info.Retryable.IsSome(), "403 carries no retry verdict")
	assert.ErrorIs(t, info, err)
}

func TestNewErrorInfo_Retryable(t *testing.T) {
	err := mocks.ServiceError("PutObject", http.StatusServiceUnavailable, "SlowDown", "Please reduce your request rate.", "", "")

	info := NewErrorInfo(testRef, "us-east-1", err)

	assert.Equal(t, types.Some(true), info.Retryable)
	assert.Equal(t, types.Some(http.StatusServiceUnavailable), info.StatusCode)
	assert.False(t, info.Time.IsSome())
	assert.False(t, info.RequestID.IsSome())
}

func TestNewErrorInfo_MessageFallsBackToError(t *testing.T) {
	err := mocks.ServiceError("HeadObject", http.StatusNotFound, "", "", "", "")

	info := NewErrorInfo(testRef, "us-east-1", err)

	msg, ok := info.Message.Get()
	require.True(t, ok)
	assert.Equal(t, err.Error(), msg)
	assert.False(t, info.Code.IsSome())
	assert.Equal(t, types.Some(http.StatusNotFound), info.StatusCode)
}

func TestNewErrorInfo_PlainError(t *testing.T) {
	err := errors.New("socket closed")

	info := NewErrorInfo(testRef, "us-east-1", err)

	assert.Equal(t, types.Some("socket closed"), info.Message)
	assert.False(t, info.Code.IsSome())
	assert.False(t, info.StatusCode.IsSome())
	assert.False(t, info.RequestID.IsSome())
	assert.False(t, info.Time.IsSome())
}

func TestNewErrorInfo_ReusesErrorInfo(t *testing.T) {
	t.Run("keeps its identity", func(t *testing.T) {
		existing := &types.ErrorInfo{ObjectRef: testRef, Region: "eu-west-1", Message: types.Some("already classified")}

		info := NewErrorInfo(types.ObjectRef{Bucket: "other", Key: "other.txt"}, "us-east-1", fmt.Errorf("wrapped: %w", existing))

		assert.Equal(t, testRef, info.ObjectRef)
		assert.Equal(t, "eu-west-1", info.Region)
		assert.Equal(t, types.Some("already classified"), info.Message)
	})

	t.Run("fills missing identity from the call", func(t *testing.T) {
		existing := &types.ErrorInfo{Message: types.Some("classified upstream"), StatusCode: types.Some(http.StatusConflict)}

		info := NewErrorInfo(testRef, "ap-south-1", fmt.Errorf("wrapped: %w", existing))

		assert.Equal(t, testRef, info.ObjectRef)
		assert.Equal(t, "ap-south-1", info.Region)
		assert.Equal(t, types.Some(http.StatusConflict), info.StatusCode)
		assert.Empty(t, existing.Bucket, "the wrapped record is not modified")
	})
}

func TestNewSetupFault(t *testing.T) {
	err := mocks.ServiceError("HeadObject", http.StatusForbidden, "AccessDenied", "Access Denied", "REQ", "")

	info := NewSetupFault(testRef, "us-east-1", err)

	assert.Equal(t, types.Some(err.Error()), info.Message)
	assert.Equal(t, testRef, info.ObjectRef)
	assert.Equal(t, "us-east-1", info.Region)
	assert.False(t, info.Code.IsSome())
	assert.False(t, info.StatusCode.IsSome())
	assert.False(t, info.Retryable.IsSome())
}
