package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"
)

const filePermissions = 0644

// ErrInvalidSink is returned when a sink is misconfigured.
var ErrInvalidSink = errors.New("invalid sink")

// Sink stores named report blobs.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// FileSink writes blobs below a directory.
type FileSink struct {
	Dir string
}

// Put writes data to Dir/name through a temporary file and a rename.
func (s FileSink) Put(_ context.Context, name string, data []byte) error {
	p := filepath.Join(s.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("failed to rename report: %w", err)
	}
	return nil
}

// SnappyExt is appended to names written through a SnappySink.
const SnappyExt = ".sz"

// SnappySink compresses blobs with snappy block encoding before handing
// them to Next.
type SnappySink struct {
	Next Sink
}

func (s SnappySink) Put(ctx context.Context, name string, data []byte) error {
	if s.Next == nil {
		return fmt.Errorf("%w: snappy sink has no target", ErrInvalidSink)
	}
	return s.Next.Put(ctx, name+SnappyExt, snappy.Encode(nil, data))
}

// Decompress reverses SnappySink.
func Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress report: %w", err)
	}
	return out, nil
}

// PutObjectAPI is the part of the S3 client a S3Sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configure NewS3Sink.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint selects an S3 compatible service and path-style addressing.
	Endpoint string
	// AccessKey and SecretKey replace the default credential chain when
	// both are set.
	AccessKey string
	SecretKey string
}

// S3Sink uploads blobs as objects under Prefix.
type S3Sink struct {
	Client PutObjectAPI
	Bucket string
	Prefix string
}

// NewS3Sink builds a client from the default AWS configuration chain.
func NewS3Sink(ctx context.Context, o S3Options) (*S3Sink, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", ErrInvalidSink)
	}
	var opts []func(*awsconfig.LoadOptions) error
	if o.Region != "" {
		opts = append(opts, awsconfig.WithRegion(o.Region))
	}
	if o.AccessKey != "" && o.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})
	return &S3Sink{Client: client, Bucket: o.Bucket, Prefix: o.Prefix}, nil
}

// Key returns the object key of name.
func (s *S3Sink) Key(name string) string {
	if s.Prefix == "" {
		return name
	}
	return path.Join(s.Prefix, name)
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(s.Key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", s.Key(name), s.Bucket, err)
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".yaml":
		return "application/yaml"
	}
	return "application/octet-stream"
}

// Write encodes v in format f and stores it under name plus the format's
// extension.
func Write(ctx context.Context, s Sink, name string, v any, f Format) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v, f); err != nil {
		return err
	}
	return s.Put(ctx, name+f.Ext(), buf.Bytes())
}
