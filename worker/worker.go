package worker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/redis"
	"text2phenotype.com/postag/rmq"
	"text2phenotype.com/postag/s3client"
)

const inputExtension = ".parquet"

type Config struct {
	Workers  int  `envconfig:"POS_WORKERS" default:"1"`
	Progress bool `envconfig:"POS_PROGRESS" default:"true"`
}

func ReadEnvironment() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return config, errors.Wrap(err, "read worker environment")
	}
	if config.Workers < 1 {
		return config, errors.Errorf("POS_WORKERS must be at least 1, got %d", config.Workers)
	}
	return config, nil
}

// Clients are the optional services a worker reports to. Nil clients are
// skipped.
type Clients struct {
	Redis *redis.Client
	S3    *s3client.Client
	RMQ   *rmq.Client
}

type Worker struct {
	config    Config
	job       Job
	redis     redisTransactions
	s3        s3Transactions
	rmq       rmqTransactions
	bars      progressBars
	fdlLogger *zerolog.Logger
}

func New(job Job, config Config, clients Clients) *Worker {
	fdlLogger := logger.NewLogger("Worker").With().Str("pipeline", job.Name()).Logger()
	worker := Worker{
		config:    config,
		job:       job,
		bars:      noBars{},
		fdlLogger: &fdlLogger,
	}
	if config.Workers < 1 {
		worker.config.Workers = 1
	}
	if config.Progress {
		worker.bars = terminalBars{}
	}
	if clients.Redis != nil {
		worker.redis = &redisClientWrapper{clients.Redis}
	}
	if clients.S3 != nil {
		worker.s3 = &s3ClientWrapper{clients.S3}
	}
	if clients.RMQ != nil {
		worker.rmq = &rmqClientWrapper{clients.RMQ}
	}
	return &worker
}

// Summary counts the outcome of every discovered file.
type Summary struct {
	Processed    int
	Skipped      int
	Failed       int
	HookFailures int
	Files        []Message
}

// Discover lists the parquet files directly inside dir in name order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "list input directory")
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), inputExtension) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// Run processes every parquet file of inputDir into outputDir. A failing
// file never stops the run; only directory errors are returned.
func (worker *Worker) Run(ctx context.Context, inputDir, outputDir string) (Summary, error) {
	var summary Summary

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return summary, errors.Wrap(err, "create output directory")
	}
	files, err := Discover(inputDir)
	if err != nil {
		return summary, err
	}
	worker.fdlLogger.Info().
		Str("input_dir", inputDir).
		Str("output_dir", outputDir).
		Int("files", len(files)).
		Int("workers", worker.config.Workers).
		Msg("Starting run")

	outcomes := make([]fileOutcome, len(files))
	worker.bars.start()
	var g errgroup.Group
	g.SetLimit(worker.config.Workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			outcomes[i] = worker.processFile(ctx, file, outputDir)
			return nil
		})
	}
	g.Wait()
	worker.bars.stop()

	for _, outcome := range outcomes {
		switch outcome.msg.Status {
		case StatusProcessed:
			summary.Processed++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		summary.HookFailures += outcome.hookFailures
		summary.Files = append(summary.Files, outcome.msg)
	}
	worker.fdlLogger.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("hook_failures", summary.HookFailures).
		Msg("Run finished")
	return summary, nil
}

func (worker *Worker) Close() {
	if worker.redis != nil {
		worker.redis.close()
	}
	if worker.s3 != nil {
		worker.s3.close()
	}
	if worker.rmq != nil {
		worker.rmq.close()
	}
}
