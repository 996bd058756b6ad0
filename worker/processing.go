package worker

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"text2phenotype.com/postag/columnar"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/utils"
)

const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Message reports the outcome of one file.
type Message struct {
	Pipeline    string  `json:"pipeline"`
	Input       string  `json:"input"`
	Output      string  `json:"output,omitempty"`
	Key         string  `json:"key,omitempty"`
	Status      string  `json:"status"`
	Rows        int64   `json:"rows"`
	Records     int     `json:"records"`
	Error       string  `json:"error,omitempty"`
	CompletedAt *string `json:"completed_at"`
}

type fileOutcome struct {
	msg          Message
	hookFailures int
}

func (worker *Worker) processFile(ctx context.Context, input, outputDir string) fileOutcome {
	fileLogger := worker.fdlLogger.With().Str("file", filepath.Base(input)).Logger()
	outputPath := filepath.Join(outputDir, worker.job.OutputName(input))
	outcome := fileOutcome{msg: Message{Pipeline: worker.job.Name(), Input: input, Status: StatusProcessed}}

	fileLogger.Info().Msg("Processing file")
	result, err := worker.runJob(ctx, input, outputPath)

	var missing *columnar.MissingColumnError
	var panicErr *utils.PanicError
	switch {
	case err == nil:
		outcome.msg.Output = result.Output
		outcome.msg.Rows = result.Rows
		outcome.msg.Records = result.Records
		fileLogger.Info().
			Str("output", result.Output).
			Int64("rows", result.Rows).
			Int("records", result.Records).
			Msg("Processed file")
		if worker.s3 != nil {
			key, err := worker.s3.uploadOutput(ctx, result.Output)
			if err != nil {
				outcome.hookFailures++
				fileLogger.Error().Stack().Err(err).Msg("Failed to upload output")
			} else {
				outcome.msg.Key = key
			}
		}
	case errors.As(err, &missing):
		outcome.msg.Status = StatusSkipped
		outcome.msg.Error = err.Error()
		fileLogger.Warn().
			Str("column", missing.Column).
			Strs("available_columns", missing.Available).
			Msg("Required column not found. Skipping file.")
	case errors.Is(err, pipeline.ErrEmptyFile):
		outcome.msg.Status = StatusSkipped
		outcome.msg.Error = err.Error()
		fileLogger.Info().Msg("File is empty. Skipping.")
	case errors.As(err, &panicErr):
		outcome.msg.Status = StatusFailed
		outcome.msg.Error = err.Error()
		fileLogger.Error().
			Err(err).
			Str("stack_trace", string(panicErr.Stack)).
			Msg("Panic while processing file")
	default:
		outcome.msg.Status = StatusFailed
		outcome.msg.Error = err.Error()
		fileLogger.Error().Stack().Err(err).Msg("Error processing file")
	}

	outcome.msg.CompletedAt = getFormattedNow()
	if worker.rmq != nil {
		if err := worker.rmq.notifyFileDone(outcome.msg); err != nil {
			outcome.hookFailures++
			fileLogger.Error().Stack().Err(err).Msg("Failed to send completion message")
		}
	}
	return outcome
}

func (worker *Worker) runJob(ctx context.Context, input, outputPath string) (result pipeline.FileResult, err error) {
	defer utils.RecoverWithError(&err)

	if worker.redis != nil {
		release, lockErr := worker.redis.lockOutput(ctx, filepath.Base(outputPath))
		if lockErr != nil {
			return result, lockErr
		}
		defer func() {
			if releaseErr := release(); releaseErr != nil {
				worker.fdlLogger.Warn().Err(releaseErr).Str("output", outputPath).Msg("Failed to release output lock")
			}
		}()
	}

	return worker.job.Process(ctx, input, outputPath, worker.bars.newBar(filepath.Base(input)))
}
