package file_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/campusmove/pkg/file"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client *MockS3Client, cfg file.S3Config) *file.S3Storage {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "campusmove"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	s, err := file.NewS3Storage(context.Background(), cfg, file.WithS3Client(client))
	require.NoError(t, err)
	return s
}

func keyIs(key string) any {
	return mock.MatchedBy(func(in any) bool {
		switch v := in.(type) {
		case *s3.PutObjectInput:
			return *v.Key == key && *v.Bucket == "campusmove"
		case *s3.HeadObjectInput:
			return *v.Key == key && *v.Bucket == "campusmove"
		case *s3.DeleteObjectInput:
			return *v.Key == key && *v.Bucket == "campusmove"
		}
		return false
	})
}

func TestNewS3StorageConfig(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Region: "us-east-1"}, file.WithS3Client(&MockS3Client{}))
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	s := newS3(t, &MockS3Client{}, file.S3Config{})
	assert.Equal(t, "https://campusmove.s3.us-east-1.amazonaws.com/a/b.png", s.URL("a/b.png"))

	s = newS3(t, &MockS3Client{}, file.S3Config{Endpoint: "http://minio:9000/"})
	assert.Equal(t, "http://minio:9000/campusmove/a/b.png", s.URL("/a/b.png"))

	s = newS3(t, &MockS3Client{}, file.S3Config{BaseURL: "https://cdn.example.com"})
	assert.Equal(t, "https://cdn.example.com/a/b.png", s.URL("a/b.png"))
}

func TestS3StorageSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("uploads with sniffed content type", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Key == "profile_images/1/a.png" && *in.ContentType == "image/png" && *in.ContentLength == int64(len(pngBytes))
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		saved, err := s.Save(ctx, newFileHeader(t, "a.png", pngBytes), "profile_images/1/a.png")
		require.NoError(t, err)
		assert.Equal(t, "profile_images/1/a.png", saved.RelativePath)
		assert.Equal(t, "image/png", saved.MIMEType)
		client.AssertExpectations(t)
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		client.On("PutObject", mock.Anything, keyIs("x/a.png")).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}).Once()

		_, err := s.Save(ctx, newFileHeader(t, "a.png", pngBytes), "x/a.png")
		assert.ErrorIs(t, err, file.ErrAccessDenied)
	})

	t.Run("traversal rejected before upload", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		_, err := s.Save(ctx, newFileHeader(t, "a.png", pngBytes), "../a.png")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})
}

func TestS3StorageDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("existing object", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		client.On("HeadObject", mock.Anything, keyIs("profile_images/1/a.png")).Return(&s3.HeadObjectOutput{}, nil).Once()
		client.On("DeleteObject", mock.Anything, keyIs("profile_images/1/a.png")).Return(&s3.DeleteObjectOutput{}, nil).Once()

		require.NoError(t, s.Delete(ctx, "profile_images/1/a.png"))
		client.AssertExpectations(t)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		client.On("HeadObject", mock.Anything, keyIs("gone.png")).Return(nil, &types.NotFound{}).Once()

		assert.ErrorIs(t, s.Delete(ctx, "gone.png"), file.ErrFileNotFound)
		client.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	})

	t.Run("unclassified failure", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		boom := errors.New("connection reset")
		client.On("HeadObject", mock.Anything, keyIs("a.png")).Return(&s3.HeadObjectOutput{}, nil).Once()
		client.On("DeleteObject", mock.Anything, keyIs("a.png")).Return(nil, boom).Once()

		assert.ErrorIs(t, s.Delete(ctx, "a.png"), boom)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		s := newS3(t, client, file.S3Config{})

		client.On("HeadObject", mock.Anything, keyIs("a.png")).Return(nil, context.Canceled).Once()
		assert.ErrorIs(t, s.Delete(ctx, "a.png"), file.ErrOperationCanceled)
	})
}
