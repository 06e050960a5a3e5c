package s3

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"s3bridge/storage/types"
)

func TestNewClient(t *testing.T) {
	cfg := types.StoreConfig{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "eu-central-1",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		Timeout:         5 * time.Second,
		MaxAttempts:     2,
	}

	api, err := NewClient(cfg)
	require.NoError(t, err)

	client, ok := api.(*s3.Client)
	require.True(t, ok)

	opts := client.Options()
	assert.Equal(t, "eu-central-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://localhost:9000", *opts.BaseEndpoint)
	assert.Equal(t, 2, opts.RetryMaxAttempts)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNewClient_Defaults(t *testing.T) {
	api, err := NewClient(types.StoreConfig{
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
	})
	require.NoError(t, err)

	opts := api.(*s3.Client).Options()
	assert.False(t, opts.UsePathStyle)
	assert.Nil(t, opts.BaseEndpoint)
	assert.Zero(t, opts.RetryMaxAttempts, "zero leaves the SDK default retryer in charge")
}

func TestNewClient_SingleAttempt(t *testing.T) {
	api, err := NewClient(types.StoreConfig{
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		MaxAttempts:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, api.(*s3.Client).Options().RetryMaxAttempts)
}
