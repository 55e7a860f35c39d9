package export

import (
	"context"
	"log/slog"

	"github.com/p-n-ai/pai-tube/internal/platform/config"
)

// Open builds the exporter described by cfg: a local directory sink, plus
// an S3 sink when a bucket is configured.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Exporter, error) {
	format, err := ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}

	sinks := []Sink{DirSink{Dir: cfg.Export.Dir}}
	if cfg.HasS3Export() {
		s3cfg := cfg.Export.S3
		sink, err := NewS3Sink(ctx, S3Config{
			Endpoint:  s3cfg.Endpoint,
			Bucket:    s3cfg.Bucket,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Region:    s3cfg.Region,
			Prefix:    s3cfg.Prefix,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
		logger.Info("s3 export enabled", "bucket", s3cfg.Bucket)
	}
	return NewExporter(format, logger, sinks...), nil
}
