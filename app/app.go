package app

import (
	"context"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"text2phenotype.com/postag/annotate"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/output"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/redis"
	"text2phenotype.com/postag/rmq"
	"text2phenotype.com/postag/s3client"
	"text2phenotype.com/postag/worker"
)

type Environment struct {
	TaggerModel   string `envconfig:"POS_TAGGER_MODEL" required:"true"`
	TagDictionary string `envconfig:"POS_TAG_DICTIONARY" default:""`
	TagMap        string `envconfig:"POS_TAG_MAP" default:""`
	SentenceModel string `envconfig:"POS_SENTENCE_MODEL" default:""`
	BeamSize      int    `envconfig:"POS_BEAM_SIZE" default:"3"`
	BatchSize     int    `envconfig:"POS_BATCH_SIZE" default:"1000"`
}

func ReadEnvironment() (Environment, error) {
	var env Environment
	if err := envconfig.Process("", &env); err != nil {
		return env, errors.Wrap(err, "read environment")
	}
	if env.BatchSize < 1 {
		return env, errors.Errorf("POS_BATCH_SIZE must be at least 1, got %d", env.BatchSize)
	}
	return env, nil
}

type Pipeline int

const (
	CodePipeline Pipeline = iota
	TextPipeline
)

type Options struct {
	Pipeline Pipeline
	Input    string
	Output   string
	// Format applies to the text pipeline only.
	Format output.Format
}

// Run loads every resource, then tags the input directory. Any error
// before the first file is touched is a setup error.
func Run(ctx context.Context, opts Options) (worker.Summary, error) {
	fdlLogger := logger.NewLogger("Main")
	var summary worker.Summary

	env, err := ReadEnvironment()
	if err != nil {
		return summary, err
	}
	workerConfig, err := worker.ReadEnvironment()
	if err != nil {
		return summary, err
	}

	maxent, err := annotate.Load(annotate.Config{
		ModelPath:         env.TaggerModel,
		TagDictionaryPath: env.TagDictionary,
		TagMapPath:        env.TagMap,
		SentenceModelPath: env.SentenceModel,
		BeamSize:          env.BeamSize,
	})
	if err != nil {
		return summary, errors.WithMessage(err, "load annotator")
	}

	clients, err := newClients(ctx)
	if err != nil {
		return summary, err
	}

	var annotator pipeline.Annotator = maxent
	if clients.Redis != nil {
		annotator = annotate.NewCached(maxent, clients.Redis)
		fdlLogger.Info().Msg("Annotation cache enabled")
	}

	var job worker.Job
	switch opts.Pipeline {
	case CodePipeline:
		job = worker.NewCodeJob(annotator, env.BatchSize)
	case TextPipeline:
		job = worker.NewTextJob(annotator, opts.Format, env.BatchSize)
	default:
		return summary, errors.Errorf("unknown pipeline %d", opts.Pipeline)
	}

	w := worker.New(job, workerConfig, clients)
	defer w.Close()
	return w.Run(ctx, opts.Input, opts.Output)
}

// newClients connects every service with a configured host or bucket.
func newClients(ctx context.Context) (worker.Clients, error) {
	var clients worker.Clients

	redisConfig, err := redis.ReadEnvironment()
	if err != nil {
		return clients, err
	}
	s3Config, err := s3client.ReadEnvironment()
	if err != nil {
		return clients, err
	}
	rmqConfig, err := rmq.ReadEnvironment()
	if err != nil {
		return clients, err
	}

	if redisConfig.Enabled() {
		if clients.Redis, err = redis.NewClient(ctx, redisConfig); err != nil {
			return clients, err
		}
	}
	if s3Config.Enabled() {
		if clients.S3, err = s3client.New(ctx, s3Config); err != nil {
			closeClients(clients)
			return worker.Clients{}, err
		}
	}
	if rmqConfig.Enabled() {
		if clients.RMQ, err = rmq.NewClient(rmqConfig); err != nil {
			closeClients(clients)
			return worker.Clients{}, err
		}
	}
	return clients, nil
}

func closeClients(clients worker.Clients) {
	if clients.Redis != nil {
		clients.Redis.Close()
	}
	if clients.RMQ != nil {
		clients.RMQ.Close()
	}
}
