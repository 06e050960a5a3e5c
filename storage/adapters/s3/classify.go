package s3

import (
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"s3bridge/storage/types"
)

// notFoundCode is the error code the store reports for a missing object on
// requests without a response body, such as HeadObject.
const notFoundCode = "NotFound"

var retryables = retry.IsErrorRetryables(retry.DefaultRetryables)

// IsNotFound reports whether err means the object does not exist: an HTTP 404
// or the error code NotFound.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if status, ok := statusCode(err); ok && status == http.StatusNotFound {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == notFoundCode
}

// NewErrorInfo normalizes a failed store call into an ErrorInfo. Fields the
// failure does not carry stay absent. An ErrorInfo already in err's chain is
// reused, with empty identifying fields taken from the call.
func NewErrorInfo(ref types.ObjectRef, region string, err error) *types.ErrorInfo {
	var existing *types.ErrorInfo
	if errors.As(err, &existing) && existing != nil {
		info := *existing
		if info.Bucket == "" {
			info.Bucket = ref.Bucket
		}
		if info.Key == "" {
			info.Key = ref.Key
		}
		if info.Region == "" {
			info.Region = region
		}
		return &info
	}

	info := &types.ErrorInfo{
		ObjectRef: ref,
		Region:    region,
		Cause:     err,
	}
	if err == nil {
		return info
	}

	info.Message = types.Some(err.Error())

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.ErrorCode(); code != "" {
			info.Code = types.Some(code)
		}
		if msg := apiErr.ErrorMessage(); msg != "" {
			info.Message = types.Some(msg)
		}
	}

	if status, ok := statusCode(err); ok {
		info.StatusCode = types.Some(status)
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.ServiceRequestID() != "" {
		info.RequestID = types.Some(respErr.ServiceRequestID())
	}

	if resp := httpResponse(err); resp != nil {
		if at, perr := http.ParseTime(resp.Header.Get("Date")); perr == nil {
			info.Time = types.Some(FormatTime(at))
		}
	}

	switch retryables.IsErrorRetryable(err) {
	case aws.TrueTernary:
		info.Retryable = types.Some(true)
	case aws.FalseTernary:
		info.Retryable = types.Some(false)
	}

	return info
}

// NewSetupFault wraps a failure raised before or around the store call, such
// as a rejected configuration or a recovered panic. Only the message is set.
func NewSetupFault(ref types.ObjectRef, region string, err error) *types.ErrorInfo {
	info := &types.ErrorInfo{
		ObjectRef: ref,
		Region:    region,
		Cause:     err,
	}
	if err != nil {
		info.Message = types.Some(err.Error())
	}
	return info
}

func httpResponse(err error) *http.Response {
	var respErr *smithyhttp.ResponseError
	if !errors.As(err, &respErr) || respErr.Response == nil {
		return nil
	}
	return respErr.Response.Response
}

func statusCode(err error) (int, bool) {
	resp := httpResponse(err)
	if resp == nil {
		return 0, false
	}
	return resp.StatusCode, true
}
