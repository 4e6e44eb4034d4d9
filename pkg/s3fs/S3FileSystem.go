// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package s3fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"

	"github.com/navwar/gitdeploy/pkg/fs"
)

// DefaultPartSize is used when no positive part size is given.
const DefaultPartSize = 1_048_576 * 100 // 100 MiB

// S3FileSystem is a deployment target rooted at a prefix within an S3 bucket.
type S3FileSystem struct {
	client           Client
	bucket           string
	prefix           string
	acl              types.ObjectCannedACL
	bucketKeyEnabled bool
	partSize         int
}

func (s3fs *S3FileSystem) Address() string {
	if len(s3fs.prefix) == 0 {
		return fmt.Sprintf("s3://%s", s3fs.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s3fs.bucket, s3fs.prefix)
}

// key returns the object key for the given name
func (s3fs *S3FileSystem) key(name string) string {
	name = strings.TrimPrefix(name, "/")
	if len(s3fs.prefix) == 0 {
		return name
	}
	return path.Join(s3fs.prefix, name)
}

func (s3fs *S3FileSystem) uri(name string) string {
	return fmt.Sprintf("s3://%s/%s", s3fs.bucket, s3fs.key(name))
}

// Delete deletes the object.  Deleting an object that does not exist is not an error.
func (s3fs *S3FileSystem) Delete(ctx context.Context, name string) error {
	_, err := s3fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s3fs.bucket),
		Key:    aws.String(s3fs.key(name)),
	})
	if err != nil && !s3fs.IsNotExist(err) {
		return fmt.Errorf("error deleting object %q: %w", s3fs.uri(name), err)
	}
	return nil
}

// IsNotExist returns true if the error indicates the object or bucket does not exist.
func (s3fs *S3FileSystem) IsNotExist(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		switch apiError.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var responseError *http.ResponseError
	if errors.As(err, &responseError) {
		if responseError.HTTPStatusCode() == 404 {
			return true
		}
	}
	return false
}

func (s3fs *S3FileSystem) Read(ctx context.Context, name string) ([]byte, error) {
	getObjectOutput, err := s3fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s3fs.bucket),
		Key:    aws.String(s3fs.key(name)),
	})
	if err != nil {
		if s3fs.IsNotExist(err) {
			return nil, fmt.Errorf("error reading object %q: %w", s3fs.uri(name), fs.ErrNotExist)
		}
		return nil, fmt.Errorf("error reading object %q: %w", s3fs.uri(name), err)
	}
	defer getObjectOutput.Body.Close()
	body, err := io.ReadAll(getObjectOutput.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading body for object %q: %w", s3fs.uri(name), err)
	}
	return body, nil
}

// contentType returns the content type for the extension, or sniffs the content if the extension is unknown.
func contentType(name string, content []byte) string {
	if t := mime.TypeByExtension(path.Ext(name)); len(t) > 0 {
		return t
	}
	if len(content) == 0 {
		return ""
	}
	if mt := mimetype.Detect(content); mt != nil {
		return mt.String()
	}
	return ""
}

// Write uploads the content as a single object, or as a multipart upload if the content is at least the part size.
// A failed multipart upload is aborted.
func (s3fs *S3FileSystem) Write(ctx context.Context, name string, content []byte) error {
	uploader := NewUploader(ctx, &UploaderInput{
		ACL:              s3fs.acl,
		Client:           s3fs.client,
		Bucket:           s3fs.bucket,
		BucketKeyEnabled: s3fs.bucketKeyEnabled,
		ContentType:      contentType(name, content),
		Key:              s3fs.key(name),
		PartSize:         s3fs.partSize,
	})
	for offset := 0; offset < len(content); offset += s3fs.partSize {
		end := offset + s3fs.partSize
		if end > len(content) {
			end = len(content)
		}
		if _, err := uploader.Write(content[offset:end]); err != nil {
			_ = uploader.Abort()
			return fmt.Errorf("error uploading object %q: %w", s3fs.uri(name), err)
		}
	}
	if err := uploader.Close(); err != nil {
		_ = uploader.Abort()
		return fmt.Errorf("error uploading object %q: %w", s3fs.uri(name), err)
	}
	return nil
}

func NewS3FileSystem(
	client Client,
	bucket string,
	prefix string,
	acl types.ObjectCannedACL,
	bucketKeyEnabled bool,
	partSize int,
) *S3FileSystem {
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	return &S3FileSystem{
		client:           client,
		bucket:           bucket,
		prefix:           strings.Trim(prefix, "/"),
		acl:              acl,
		bucketKeyEnabled: bucketKeyEnabled,
		partSize:         partSize,
	}
}
