package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putKeys    []string
	putErr     error
	delKeys    []string
	delErrKeys map[string]error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putKeys = append(f.putKeys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.delKeys = append(f.delKeys, *in.Key)
	if err, ok := f.delErrKeys[*in.Key]; ok {
		return nil, err
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestRandomImageKey(t *testing.T) {
	key := RandomImageKey()
	assert.Regexp(t, regexp.MustCompile(`^products/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}$`), key)
	assert.NotEqual(t, key, RandomImageKey())
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	store := &S3ImageStore{client: fake, bucket: "b", baseEndpoint: "http://127.0.0.1:9000/"}

	err := store.Upload(context.Background(), "products/x", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Equal(t, []string{"products/x"}, fake.putKeys)
}

func TestUpload_Error(t *testing.T) {
	fake := &fakeS3{putErr: errors.New("denied")}
	store := &S3ImageStore{client: fake, bucket: "b"}

	err := store.Upload(context.Background(), "k", "image/png", io.LimitReader(nil, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading k")
}

func TestDelete_ContinuesPastFailures(t *testing.T) {
	fake := &fakeS3{delErrKeys: map[string]error{"k1": errors.New("gone")}}
	store := &S3ImageStore{client: fake, bucket: "b"}

	err := store.Delete(context.Background(), "k1", "k2", "k3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deleting k1")
	// all keys attempted despite the first failure
	assert.Equal(t, []string{"k1", "k2", "k3"}, fake.delKeys)
}

func TestURL(t *testing.T) {
	store := &S3ImageStore{bucket: "product-images", baseEndpoint: "http://127.0.0.1:9000/"}
	assert.Equal(t, "http://127.0.0.1:9000/product-images/products/x", store.URL("products/x"))
}
