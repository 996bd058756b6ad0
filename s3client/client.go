package s3client

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"text2phenotype.com/postag/logger"
)

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

type Config struct {
	Bucket      string `envconfig:"POS_S3_BUCKET" default:""`
	Prefix      string `envconfig:"POS_S3_PREFIX" default:""`
	Region      string `envconfig:"POS_AWS_REGION" default:"us-east-1"`
	Endpoint    string `envconfig:"POS_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"POS_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"POS_AWS_ACCESS_KEY" default:""`
}

// Enabled reports whether an upload bucket is configured.
func (cfg Config) Enabled() bool {
	return cfg.Bucket != ""
}

func ReadEnvironment() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "read s3 environment")
	}
	return cfg, nil
}

// Client uploads finished output files to a bucket.
type Client struct {
	sess   *session.Session
	config Config
}

// New creates a session and checks that the bucket is reachable.
func New(ctx context.Context, cfg Config) (*Client, error) {
	sess, err := session.NewSession(awsConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "initialize s3 session")
	}
	_, err = s3.New(sess).HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)})
	if err != nil {
		return nil, errors.Wrapf(err, "access bucket %s", cfg.Bucket)
	}
	clientLogger.Info().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Msg("S3 session successfully initialized")
	return &Client{sess: sess, config: cfg}, nil
}

func awsConfig(cfg Config) *aws.Config {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithMaxRetries(4).
		WithLogLevel(aws.LogDebug).
		WithLogger(getLogger(sdkLogger))

	if cfg.AccessKeyID != "" && cfg.AccessKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKey, ""))
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	return awsCfg
}

// Key is the object key of a local file name.
func (c *Client) Key(name string) string {
	return path.Join(c.config.Prefix, name)
}

// UploadFile uploads the file at filePath under key.
func (c *Client) UploadFile(ctx context.Context, filePath string, key string) (*s3manager.UploadOutput, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer f.Close()

	fdlLogger := clientLogger.With().
		Str("key", key).
		Str("bucket", c.config.Bucket).Logger()

	uploader := s3manager.NewUploader(c.sess)
	fdlLogger.Debug().Msg("Uploading the file")
	out, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.config.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s", key)
	}
	return out, nil
}

type s3Logger struct {
	fdlLogger zerolog.Logger
}

func getLogger(fdlLogger zerolog.Logger) *s3Logger {
	return &s3Logger{
		fdlLogger,
	}
}

func (logger *s3Logger) Log(v ...interface{}) {
	logger.fdlLogger.Debug().Msg(fmt.Sprint(v...))
}
