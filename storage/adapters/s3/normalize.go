package s3

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"s3bridge/storage/types"
)

// DefaultStorageClass is reported when the store omits the storage class.
// S3 leaves the header out for STANDARD objects.
const DefaultStorageClass = "STANDARD"

// FormatTime renders t in UTC using the HTTP date layout,
// e.g. "Tue, 02 Jan 2024 15:04:05 GMT".
func FormatTime(t time.Time) string {
	return t.UTC().Format(http.TimeFormat)
}

// Properties maps a HeadObject response
func Properties(ref types.ObjectRef, region string, out *s3.HeadObjectOutput) types.PropertiesResult {
	if out == nil {
		out = &s3.HeadObjectOutput{}
	}
	return types.PropertiesResult{
		ObjectRef:            ref,
		Region:               region,
		ContentType:          aws.ToString(out.ContentType),
		ContentLength:        aws.ToInt64(out.ContentLength),
		ContentEncoding:      types.FromPtr(out.ContentEncoding),
		LastModified:         timeOpt(out.LastModified),
		DeleteMarker:         types.FromPtr(out.DeleteMarker),
		VersionID:            types.FromPtr(out.VersionId),
		ServerSideEncryption: enumOpt(out.ServerSideEncryption),
		StorageClass:         storageClass(out.StorageClass),
		ETag:                 types.FromPtr(out.ETag),
	}
}

// Object maps a GetObject response whose body has already been read
func Object(ref types.ObjectRef, region string, out *s3.GetObjectOutput, body []byte) types.GetResult {
	if out == nil {
		out = &s3.GetObjectOutput{}
	}
	return types.GetResult{
		PropertiesResult: types.PropertiesResult{
			ObjectRef:            ref,
			Region:               region,
			ContentType:          aws.ToString(out.ContentType),
			ContentLength:        aws.ToInt64(out.ContentLength),
			ContentEncoding:      types.FromPtr(out.ContentEncoding),
			LastModified:         timeOpt(out.LastModified),
			DeleteMarker:         types.FromPtr(out.DeleteMarker),
			VersionID:            types.FromPtr(out.VersionId),
			ServerSideEncryption: enumOpt(out.ServerSideEncryption),
			StorageClass:         storageClass(out.StorageClass),
			ETag:                 types.FromPtr(out.ETag),
		},
		Body: body,
	}
}

// Put maps a PutObject response. contentType is what the request carried.
func Put(ref types.ObjectRef, region string, out *s3.PutObjectOutput, contentType types.Opt[string]) types.PutResult {
	if out == nil {
		out = &s3.PutObjectOutput{}
	}
	return types.PutResult{
		ObjectRef:            ref,
		Region:               region,
		VersionID:            types.FromPtr(out.VersionId),
		ServerSideEncryption: enumOpt(out.ServerSideEncryption),
		ContentType:          contentType,
		ETag:                 types.FromPtr(out.ETag),
	}
}

func timeOpt(t *time.Time) types.Opt[string] {
	if t == nil {
		return types.None[string]()
	}
	return types.Some(FormatTime(*t))
}

// enumOpt treats the SDK's empty enum value as absent
func enumOpt[E ~string](v E) types.Opt[string] {
	if v == "" {
		return types.None[string]()
	}
	return types.Some(string(v))
}

func storageClass[E ~string](v E) string {
	if v == "" {
		return DefaultStorageClass
	}
	return string(v)
}
