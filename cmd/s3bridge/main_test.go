package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"s3bridge/config"
	mockObservability "s3bridge/observability/mocks"
	s3adapter "s3bridge/storage/adapters/s3"
	mockStorage "s3bridge/storage/mocks"
	"s3bridge/storage/types"
)

var envKeys = []string{
	"ENVIRONMENT", "SERVICE_NAME", "LOG_LEVEL", "SERVICE_VERSION",
	"STORAGE_TIMEOUT", "STORAGE_MAX_ATTEMPTS",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	"S3_ENDPOINT", "S3_USE_PATH_STYLE", "S3_SERVER_SIDE_ENCRYPTION", "S3_DEBUG",
	"OBSERVABILITY_LOG_FORMAT", "METRICS_ADDR",
}

// setupEnv isolates the test from the host environment and any .env files
// and provides credentials.
func setupEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	t.Chdir(t.TempDir())
}

type harness struct {
	api     *mockStorage.MockAPI
	configs []types.StoreConfig
	stdin   *bytes.Buffer
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	setupEnv(t)
	return &harness{
		api:    new(mockStorage.MockAPI),
		stdin:  new(bytes.Buffer),
		stdout: new(bytes.Buffer),
		stderr: new(bytes.Buffer),
	}
}

func (h *harness) run(ctx context.Context, args ...string) int {
	factory := func(cfg types.StoreConfig) (s3adapter.API, error) {
		h.configs = append(h.configs, cfg)
		return h.api, nil
	}
	return run(ctx, args, streams{in: h.stdin, out: h.stdout, err: h.stderr}, overrides{factory: factory})
}

func (h *harness) result(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "output: %s", raw)
	return out
}

func TestExists(t *testing.T) {
	h := newHarness(t)
	h.api.On("HeadObject", mock.Anything, mock.Anything).Return(nil, mockStorage.NotFoundError("HeadObject"))

	code := h.run(context.Background(), "exists", "bucket-a", "missing.txt", "--region", "eu-west-1")

	require.Equal(t, exitOK, code, h.stderr.String())
	res := h.result(t, h.stdout.Bytes())
	assert.Equal(t, true, res["ok"])
	value := res["value"].(map[string]any)
	assert.Equal(t, false, value["exists"])
	assert.Equal(t, "eu-west-1", value["region"])
	assert.Equal(t, "missing.txt", value["key"])

	require.Len(t, h.configs, 1)
	assert.Equal(t, "eu-west-1", h.configs[0].Region)
	assert.Equal(t, "AKID", h.configs[0].AccessKeyID)
}

func TestProperties_NotFoundIsFailure(t *testing.T) {
	h := newHarness(t)
	h.api.On("HeadObject", mock.Anything, mock.Anything).Return(nil, mockStorage.NotFoundError("HeadObject"))

	code := h.run(context.Background(), "properties", "bucket-a", "missing.txt")

	assert.Equal(t, exitFailed, code)
	res := h.result(t, h.stdout.Bytes())
	assert.Equal(t, false, res["ok"])
	failure := res["error"].(map[string]any)
	assert.Equal(t, float64(http.StatusNotFound), failure["statusCode"])
	assert.Equal(t, "bucket-a", failure["bucket"])
	assert.Equal(t, "us-east-1", failure["region"])
	assert.Nil(t, failure["time"])
}

func TestGet(t *testing.T) {
	newObject := func() *s3.GetObjectOutput {
		return &s3.GetObjectOutput{
			Body:          io.NopCloser(strings.NewReader("hello")),
			ContentType:   aws.String("text/plain"),
			ContentLength: aws.Int64(5),
		}
	}

	t.Run("to file", func(t *testing.T) {
		h := newHarness(t)
		h.api.On("GetObject", mock.Anything, mock.Anything).Return(newObject(), nil)
		outPath := filepath.Join(t.TempDir(), "hello.txt")

		code := h.run(context.Background(), "get", "b", "hello.txt", "--out", outPath)

		require.Equal(t, exitOK, code, h.stderr.String())
		written, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(written))

		value := h.result(t, h.stdout.Bytes())["value"].(map[string]any)
		assert.Equal(t, float64(5), value["bodyLength"])
		assert.NotContains(t, value, "body")
	})

	t.Run("to stdout", func(t *testing.T) {
		h := newHarness(t)
		h.api.On("GetObject", mock.Anything, mock.Anything).Return(newObject(), nil)

		code := h.run(context.Background(), "get", "b", "hello.txt")

		require.Equal(t, exitOK, code)
		assert.Equal(t, "hello", h.stdout.String())
		assert.Contains(t, h.stderr.String(), `"bodyLength": 5`)
	})
}

func TestPut_FromStdinWithEncryption(t *testing.T) {
	h := newHarness(t)
	h.stdin.WriteString("%PDF-1.7")
	h.api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.ContentType) == "application/pdf" &&
			in.ServerSideEncryption == s3types.ServerSideEncryptionAes256 &&
			aws.ToInt64(in.ContentLength) == 8
	})).Return(&s3.PutObjectOutput{ServerSideEncryption: s3types.ServerSideEncryptionAes256}, nil).Once()

	code := h.run(context.Background(), "put", "b", "report.pdf", "--sse")

	require.Equal(t, exitOK, code, h.stderr.String())
	value := h.result(t, h.stdout.Bytes())["value"].(map[string]any)
	assert.Equal(t, "application/pdf", value["contentType"])
	assert.Equal(t, "AES256", value["serverSideEncryption"])
	h.api.AssertExpectations(t)
}

func TestPut_FromFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o600))
	h.api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return in.ContentType == nil && aws.ToInt64(in.ContentLength) == 3
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	code := h.run(context.Background(), "put", "b", "blob", "--file", path)

	require.Equal(t, exitOK, code, h.stderr.String())
	h.api.AssertExpectations(t)
}

func TestUsageAndConfigErrors(t *testing.T) {
	t.Run("missing arguments", func(t *testing.T) {
		h := newHarness(t)
		assert.Equal(t, exitUsage, h.run(context.Background(), "exists", "only-bucket"))
		h.api.AssertNotCalled(t, "HeadObject", mock.Anything, mock.Anything)
	})

	t.Run("missing credentials", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("AWS_ACCESS_KEY_ID", "")

		code := h.run(context.Background(), "exists", "b", "k")

		assert.Equal(t, exitUsage, code)
		assert.Contains(t, h.stderr.String(), "AWS_ACCESS_KEY_ID is required")
		assert.Empty(t, h.configs)
	})

	t.Run("credentials from flags", func(t *testing.T) {
		h := newHarness(t)
		t.Setenv("AWS_ACCESS_KEY_ID", "")
		h.api.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{}, nil)

		code := h.run(context.Background(), "exists", "b", "k", "--access-key-id", "FLAGID")

		require.Equal(t, exitOK, code, h.stderr.String())
		assert.Equal(t, "FLAGID", h.configs[0].AccessKeyID)
	})

	t.Run("unreadable input file", func(t *testing.T) {
		h := newHarness(t)
		code := h.run(context.Background(), "put", "b", "k", "--file", filepath.Join(t.TempDir(), "absent"))
		assert.Equal(t, exitUsage, code)
	})
}

func TestInterrupted(t *testing.T) {
	h := newHarness(t)
	release := make(chan struct{})
	defer close(release)
	h.api.On("HeadObject", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		<-release
	}).Return(&s3.HeadObjectOutput{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := h.run(ctx, "exists", "b", "k")

	assert.Equal(t, exitInterrupted, code)
	assert.Empty(t, h.stdout.String())
}

func TestExecute_ServesMetricsUntilDone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Observability.MetricsAddr = "127.0.0.1:0"
	app := &Application{
		cfg:      cfg,
		logger:   new(mockObservability.MockLogger).Quiet(),
		registry: prometheus.NewRegistry(),
	}

	ran := false
	require.NoError(t, app.execute(context.Background(), func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	err := app.execute(context.Background(), func(context.Context) error {
		return errOperationFailed
	})
	assert.ErrorIs(t, err, errOperationFailed)
}
