package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	objects   map[string][]byte
	types     map[string]string
	putErr    error
	deleteErr error
	headErr   error
	created   bool
}

func newMockS3Client() *mockS3Client {
	return &mockS3Client{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *mockS3Client) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[aws.ToString(in.Key)] = data
	m.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3Client) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	delete(m.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3Client) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockS3Client) CreateBucket(context.Context, *s3.CreateBucketInput, ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.created = true
	return &s3.CreateBucketOutput{}, nil
}

func TestS3Store_UploadAndDelete_S3Locator(t *testing.T) {
	mock := newMockS3Client()
	store := newS3Store(mock, Config{Bucket: "images"})
	ctx := context.Background()

	loc, err := store.Upload(ctx, "book_images/a.png", strings.NewReader("data"), 4, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "s3://images/book_images/a.png", loc)
	assert.Equal(t, []byte("data"), mock.objects["book_images/a.png"])
	assert.Equal(t, "image/png", mock.types["book_images/a.png"])

	require.NoError(t, store.Delete(ctx, loc))
	assert.Empty(t, mock.objects)
}

func TestS3Store_PublicBaseURL(t *testing.T) {
	mock := newMockS3Client()
	store := newS3Store(mock, Config{Bucket: "images", PublicBaseURL: "https://cdn.example.com/"})
	ctx := context.Background()

	loc, err := store.Upload(ctx, "profile_pictures/p.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/profile_pictures/p.jpg", loc)

	key, err := store.keyFromLocator(loc)
	require.NoError(t, err)
	assert.Equal(t, "profile_pictures/p.jpg", key)
}

func TestS3Store_DeleteForeignLocator(t *testing.T) {
	store := newS3Store(newMockS3Client(), Config{Bucket: "images"})

	assert.Error(t, store.Delete(context.Background(), "https://elsewhere.example.com/a.png"))
	assert.Error(t, store.Delete(context.Background(), "s3://other/a.png"))
}

func TestS3Store_DeleteMissingObjectIsNotAnError(t *testing.T) {
	mock := newMockS3Client()
	mock.deleteErr = &types.NoSuchKey{}
	store := newS3Store(mock, Config{Bucket: "images"})

	assert.NoError(t, store.Delete(context.Background(), "s3://images/gone.png"))
}

func TestS3Store_UploadError(t *testing.T) {
	mock := newMockS3Client()
	mock.putErr = errors.New("boom")
	store := newS3Store(mock, Config{Bucket: "images"})

	_, err := store.Upload(context.Background(), "k", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, mock.putErr)
}

func TestS3Store_HealthCheck(t *testing.T) {
	mock := newMockS3Client()
	store := newS3Store(mock, Config{Bucket: "images"})
	assert.NoError(t, store.HealthCheck(context.Background()))

	mock.headErr = errors.New("unreachable")
	assert.Error(t, store.HealthCheck(context.Background()))
}

func TestS3Store_EnsureBucket(t *testing.T) {
	mock := newMockS3Client()
	mock.headErr = &types.NotFound{}
	store := newS3Store(mock, Config{Bucket: "images"})

	require.NoError(t, store.ensureBucket(context.Background(), "eu-west-1"))
	assert.True(t, mock.created)
}
