package export

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	p := &fakePutter{}
	u := NewS3UploaderWithClient("diaries", p)

	require.NoError(t, u.Upload(context.Background(), "users/1/diary/2024-03-04.json", []byte(`{"a":1}`), "application/json"))

	require.NotNil(t, p.in)
	assert.Equal(t, "diaries", aws.ToString(p.in.Bucket))
	assert.Equal(t, "users/1/diary/2024-03-04.json", aws.ToString(p.in.Key))
	assert.Equal(t, "application/json", aws.ToString(p.in.ContentType))
	assert.Equal(t, int64(7), aws.ToInt64(p.in.ContentLength))
	body, err := io.ReadAll(p.in.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestS3Uploader_UploadError(t *testing.T) {
	u := NewS3UploaderWithClient("diaries", &fakePutter{err: errors.New("AccessDenied")})

	err := u.Upload(context.Background(), "k", nil, "application/json")

	assert.ErrorContains(t, err, "diaries/k")
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNewS3Uploader_NoBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrNoBucket)
}

func TestNewS3Uploader_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		assert.Equal(t, "miniosecret", creds.SecretAccessKey)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	u, err := NewS3Uploader(context.Background(), Config{
		Region:    "eu-west-1",
		Endpoint:  "http://127.0.0.1:9000",
		Bucket:    "diaries",
		AccessKey: "minioadmin",
		SecretKey: "miniosecret",
	})

	require.NoError(t, err)
	assert.Equal(t, "diaries", u.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Uploader_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	_, err := NewS3Uploader(context.Background(), Config{Bucket: "b"})
	assert.ErrorContains(t, err, "boom")
}

func TestS3Uploader_AgainstS3CompatibleServer(t *testing.T) {
	var gotMethod, gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	u, err := NewS3Uploader(context.Background(), Config{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		Bucket:    "diaries",
		AccessKey: "k",
		SecretKey: "s",
	})
	require.NoError(t, err)

	require.NoError(t, u.Upload(context.Background(), "users/7/diary/2024-03-04.json", []byte(`{"meals":[]}`), "application/json"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/diaries/users/7/diary/2024-03-04.json", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"meals":[]}`, string(gotBody))
}
