package worker

import (
	"context"

	"text2phenotype.com/postag/output"
	"text2phenotype.com/postag/pipeline"
)

// Job turns one input file into one output file.
type Job interface {
	Name() string
	OutputName(input string) string
	Process(ctx context.Context, input, outputPath string, progress pipeline.Progress) (pipeline.FileResult, error)
}

type codeJob struct {
	annotator pipeline.Annotator
	batchSize int
}

// NewCodeJob tags the word positions of the content column as JSON lines.
func NewCodeJob(annotator pipeline.Annotator, batchSize int) Job {
	return &codeJob{annotator: annotator, batchSize: batchSize}
}

func (job *codeJob) Name() string {
	return "code"
}

func (job *codeJob) OutputName(input string) string {
	return output.FileName(input, output.FormatJSON)
}

func (job *codeJob) Process(ctx context.Context, input, outputPath string, progress pipeline.Progress) (pipeline.FileResult, error) {
	return pipeline.TagCodeFile(ctx, job.annotator, input, outputPath, job.batchSize, progress)
}

type textJob struct {
	annotator pipeline.Annotator
	format    output.Format
	batchSize int
}

// NewTextJob tags the sentences of the text column in the given format.
func NewTextJob(annotator pipeline.Annotator, format output.Format, batchSize int) Job {
	return &textJob{annotator: annotator, format: format, batchSize: batchSize}
}

func (job *textJob) Name() string {
	return "text"
}

func (job *textJob) OutputName(input string) string {
	return output.FileName(input, job.format)
}

func (job *textJob) Process(ctx context.Context, input, outputPath string, progress pipeline.Progress) (pipeline.FileResult, error) {
	return pipeline.TagTextFile(ctx, job.annotator, input, outputPath, job.format, job.batchSize, progress)
}
