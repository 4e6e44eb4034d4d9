// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader buffers writes and uploads them as a single object,
// or as a multipart upload once the buffer reaches the part size.
type Uploader struct {
	ctx context.Context
	//
	acl              types.ObjectCannedACL
	client           Client
	bucket           *string
	bucketKeyEnabled bool
	contentType      *string
	key              *string
	partSize         int
	//
	buffer         *bytes.Buffer
	uploadID       *string
	lastPartNumber int32
	etags          map[int32]*string
	closed         bool
}

// Abort aborts the multipart upload, if one was started.
func (u *Uploader) Abort() error {
	u.closed = true
	if u.uploadID == nil {
		return nil
	}
	_, err := u.client.AbortMultipartUpload(u.ctx, &s3.AbortMultipartUploadInput{
		Bucket:   u.bucket,
		Key:      u.key,
		UploadId: u.uploadID,
	})
	if err != nil {
		return err
	}
	u.uploadID = nil
	return nil
}

func (u *Uploader) Close() error {
	if u.closed {
		return io.ErrUnexpectedEOF
	}

	u.closed = true

	// if upload hasn't started.
	if u.uploadID == nil {
		// a readseeker inferface is needed to rewind
		// the reader to the beginning if the first attempt failed
		// and the client retries
		reader := bytes.NewReader(u.buffer.Bytes())
		_, err := u.client.PutObject(u.ctx, &s3.PutObjectInput{
			ACL:              u.acl,
			Body:             reader,
			Bucket:           u.bucket,
			BucketKeyEnabled: u.bucketKeyEnabled,
			ContentLength:    int64(reader.Len()),
			ContentType:      u.contentType,
			Key:              u.key,
		})
		if err != nil {
			return err
		}
		u.buffer = bytes.NewBuffer([]byte{})
		return nil
	}

	// upload remaining bytes
	if u.buffer.Len() > 0 {
		if err := u.uploadPart(); err != nil {
			return err
		}
	}

	completedParts := []types.CompletedPart{}
	for i := int32(1); i <= u.lastPartNumber; i++ {
		completedParts = append(completedParts, types.CompletedPart{
			ETag:       u.etags[i],
			PartNumber: i,
		})
	}

	_, err := u.client.CompleteMultipartUpload(u.ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   u.bucket,
		Key:      u.key,
		UploadId: u.uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completedParts,
		},
	})
	if err != nil {
		return err
	}
	return nil
}

func (u *Uploader) uploadPart() error {
	reader := bytes.NewReader(u.buffer.Bytes())
	partNumber := u.lastPartNumber + 1
	uploadPartOutput, err := u.client.UploadPart(u.ctx, &s3.UploadPartInput{
		Body:          reader,
		Bucket:        u.bucket,
		Key:           u.key,
		PartNumber:    partNumber,
		UploadId:      u.uploadID,
		ContentLength: int64(reader.Len()),
	})
	if err != nil {
		return err
	}

	// save etag
	u.etags[partNumber] = uploadPartOutput.ETag

	u.lastPartNumber = partNumber

	u.buffer = bytes.NewBuffer([]byte{})
	return nil
}

func (u *Uploader) Write(p []byte) (int, error) {
	if u.closed {
		return 0, io.ErrUnexpectedEOF
	}

	// write to internal buffer
	n, err := u.buffer.Write(p)
	if err != nil {
		return 0, err
	}

	if u.buffer.Len() >= u.partSize {
		// If multipart upload hasn't been started yet, then create it.
		if u.uploadID == nil {
			createMultipartUploadOutput, err := u.client.CreateMultipartUpload(u.ctx, &s3.CreateMultipartUploadInput{
				ACL:              u.acl,
				Bucket:           u.bucket,
				BucketKeyEnabled: u.bucketKeyEnabled,
				ContentType:      u.contentType,
				Key:              u.key,
			})
			if err != nil {
				return 0, err
			}
			u.uploadID = createMultipartUploadOutput.UploadId
		}
		if err := u.uploadPart(); err != nil {
			return 0, err
		}
	}

	return n, nil
}

type UploaderInput struct {
	ACL              types.ObjectCannedACL
	Client           Client
	Bucket           string
	BucketKeyEnabled bool
	ContentType      string
	Key              string
	PartSize         int
}

func NewUploader(ctx context.Context, input *UploaderInput) *Uploader {
	var contentType *string
	if len(input.ContentType) > 0 {
		contentType = aws.String(input.ContentType)
	}
	return &Uploader{
		ctx: ctx,
		//
		acl:              input.ACL,
		client:           input.Client,
		bucket:           aws.String(input.Bucket),
		bucketKeyEnabled: input.BucketKeyEnabled,
		contentType:      contentType,
		key:              aws.String(input.Key),
		partSize:         input.PartSize,
		//
		buffer:         bytes.NewBuffer([]byte{}),
		uploadID:       nil,
		lastPartNumber: int32(0),
		etags:          map[int32]*string{},
		closed:         false,
	}
}
