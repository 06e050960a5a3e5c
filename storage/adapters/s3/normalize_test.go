package s3

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"

	"s3bridge/storage/types"
)

func TestProperties_FullResponse(t *testing.T) {
	modified := time.Date(2024, 3, 5, 10, 30, 0, 0, time.FixedZone("CET", 3600))
	out := &s3.HeadObjectOutput{
		ContentType:          aws.String("application/pdf"),
		ContentLength:        aws.Int64(2048),
		ContentEncoding:      aws.String("gzip"),
		LastModified:         &modified,
		DeleteMarker:         aws.Bool(false),
		VersionId:            aws.String("v1"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
		StorageClass:         s3types.StorageClassGlacier,
		ETag:                 aws.String(`"abc"`),
	}

	res := Properties(testRef, "eu-west-1", out)

	assert.Equal(t, testRef, res.ObjectRef)
	assert.Equal(t, "eu-west-1", res.Region)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, int64(2048), res.ContentLength)
	assert.Equal(t, types.Some("gzip"), res.ContentEncoding)
	assert.Equal(t, types.Some("Tue, 05 Mar 2024 09:30:00 GMT"), res.LastModified)
	assert.Equal(t, types.Some(false), res.DeleteMarker, "false is present, not absent")
	assert.Equal(t, types.Some("v1"), res.VersionID)
	assert.Equal(t, types.Some("AES256"), res.ServerSideEncryption)
	assert.Equal(t, "GLACIER", res.StorageClass)
	assert.Equal(t, types.Some(`"abc"`), res.ETag)
}

func TestProperties_SparseResponse(t *testing.T) {
	res := Properties(testRef, "us-east-1", &s3.HeadObjectOutput{})

	assert.Equal(t, DefaultStorageClass, res.StorageClass)
	assert.Equal(t, "", res.ContentType)
	assert.Equal(t, int64(0), res.ContentLength)
	assert.False(t, res.ContentEncoding.IsSome())
	assert.False(t, res.LastModified.IsSome())
	assert.False(t, res.DeleteMarker.IsSome())
	assert.False(t, res.VersionID.IsSome())
	assert.False(t, res.ServerSideEncryption.IsSome())
	assert.False(t, res.ETag.IsSome())
}

func TestProperties_EmptyStringIsPresent(t *testing.T) {
	res := Properties(testRef, "us-east-1", &s3.HeadObjectOutput{ContentEncoding: aws.String("")})

	assert.Equal(t, types.Some(""), res.ContentEncoding)
}

func TestObject(t *testing.T) {
	out := &s3.GetObjectOutput{
		ContentType:   aws.String("text/plain"),
		ContentLength: aws.Int64(5),
	}

	res := Object(testRef, "us-east-1", out, []byte("hello"))

	assert.Equal(t, []byte("hello"), res.Body)
	assert.Equal(t, "text/plain", res.ContentType)
	assert.Equal(t, DefaultStorageClass, res.StorageClass)
	assert.Equal(t, 5, res.Redacted().BodyLength)
}

func TestPut(t *testing.T) {
	out := &s3.PutObjectOutput{
		VersionId:            aws.String("v2"),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}

	res := Put(testRef, "us-east-1", out, types.Some("application/pdf"))

	assert.Equal(t, types.Some("v2"), res.VersionID)
	assert.Equal(t, types.Some("AES256"), res.ServerSideEncryption)
	assert.Equal(t, types.Some("application/pdf"), res.ContentType)
	assert.False(t, res.ETag.IsSome())
}

func TestNormalize_NilOutput(t *testing.T) {
	assert.Equal(t, DefaultStorageClass, Properties(testRef, "r", nil).StorageClass)
	assert.Nil(t, Object(testRef, "r", nil, nil).Body)
	assert.False(t, Put(testRef, "r", nil, types.None[string]()).VersionID.IsSome())
}
