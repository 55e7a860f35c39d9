package export

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/crypto/blake2b"

	"github.com/p-n-ai/pai-tube/internal/model"
)

// Sink stores an exported file and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, f File) (string, error)
}

// DirSink writes files into a local directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Put(_ context.Context, f File) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	dst := filepath.Join(s.Dir, filepath.Base(f.Name))
	if err := os.WriteFile(dst, f.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return dst, nil
}

// objectPutter is the part of the S3 client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Sink.
type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	Prefix    string
}

// S3Sink uploads exports to an S3-compatible bucket. Keys are content
// addressed, so the same export uploaded twice lands on the same object.
type S3Sink struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Sink builds a sink from static credentials. An empty endpoint uses
// the AWS default for the region.
func NewS3Sink(ctx context.Context, cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is empty")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ObjectKey returns the content-addressed key for f.
func (s *S3Sink) ObjectKey(f File) string {
	sum := blake2b.Sum256(f.Data)
	return path.Join(s.prefix, hex.EncodeToString(sum[:8]), path.Base(f.Name))
}

func (s *S3Sink) Put(ctx context.Context, f File) (string, error) {
	key := s.ObjectKey(f)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(f.Data),
		ContentType:   aws.String(f.ContentType),
		ContentLength: aws.Int64(int64(len(f.Data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// Exporter encodes results in one format and writes them to every sink.
type Exporter struct {
	format Format
	sinks  []Sink
	logger *slog.Logger
}

// NewExporter creates an exporter. With no sinks it only encodes.
func NewExporter(format Format, logger *slog.Logger, sinks ...Sink) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{format: format, sinks: sinks, logger: logger}
}

// Format returns the configured export format.
func (e *Exporter) Format() Format {
	return e.format
}

// Result is an encoded file and the locations it was written to.
type Result struct {
	File      File
	Locations []string
}

func (e *Exporter) write(ctx context.Context, f File) (Result, error) {
	res := Result{File: f}
	for _, sink := range e.sinks {
		loc, err := sink.Put(ctx, f)
		if err != nil {
			return res, err
		}
		e.logger.Info("export written", "file", f.Name, "location", loc, "bytes", len(f.Data))
		res.Locations = append(res.Locations, loc)
	}
	return res, nil
}

// Analysis encodes and writes an analysis result.
func (e *Exporter) Analysis(ctx context.Context, a model.AnalysisResult) (Result, error) {
	f, err := EncodeAnalysis(a, e.format)
	if err != nil {
		return Result{}, err
	}
	return e.write(ctx, f)
}

// Quiz encodes and writes a quiz.
func (e *Exporter) Quiz(ctx context.Context, q model.QuizSet) (Result, error) {
	f, err := EncodeQuiz(q, e.format)
	if err != nil {
		return Result{}, err
	}
	return e.write(ctx, f)
}
