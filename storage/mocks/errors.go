package mocks

import (
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// ServiceError builds an error shaped like the one the SDK returns for a
// failed S3 call: an operation error wrapping an HTTP response error that
// carries an API error code and message. date may be empty.
func ServiceError(operation string, status int, code, message, requestID, date string) error {
	resp := &http.Response{
		StatusCode: status,
		Header:     http.Header{},
	}
	if date != "" {
		resp.Header.Set("Date", date)
	}

	var apiErr error
	if code != "" || message != "" {
		apiErr = &smithy.GenericAPIError{Code: code, Message: message}
	}

	return &smithy.OperationError{
		ServiceID:     "S3",
		OperationName: operation,
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: resp},
				Err:      apiErr,
			},
			RequestID: requestID,
		},
	}
}

// NotFoundError is what HeadObject returns for a missing key
func NotFoundError(operation string) error {
	return ServiceError(operation, http.StatusNotFound, "NotFound", "Not Found", "REQ404", "")
}
