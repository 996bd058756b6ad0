package worker

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/columnar"
	"text2phenotype.com/postag/output"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/tokenizer"
	"text2phenotype.com/postag/types"
)

func testConfiguration(t *testing.T, config mockedClientsConfig, expectedCalls methodsCalls, expectedStatus string, expectedHookFailures int) *mockedClients {
	t.Helper()
	worker, mocks := configureWorker(config)
	outcome := worker.processFile(context.Background(), "/in/data.parquet", "/out")

	calls := methodsCalls{
		job:   mocks.job.calls,
		redis: mocks.redis.calls,
		s3:    mocks.s3.calls,
		rmq:   mocks.rmq.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
	assert.Equal(t, expectedStatus, outcome.msg.Status)
	assert.Equal(t, expectedHookFailures, outcome.hookFailures)
	assert.NotNil(t, outcome.msg.CompletedAt)
	return mocks
}

func TestWorker(t *testing.T) {
	t.Run("Successful", testSuccessfulFile)
	t.Run("Missing column", testMissingColumn)
	t.Run("Empty file", testEmptyFile)
	t.Run("Job failed", testJobFailed)
	t.Run("Job panicked", testJobPanicked)
	t.Run("Lock not obtained", testLockFailed)
	t.Run("Lock release failed", testReleaseFailed)
	t.Run("Upload failed", testUploadFailed)
	t.Run("Notification failed", testNotifyFailed)
}

func testSuccessfulFile(t *testing.T) {
	mocks := testConfiguration(t,
		mockedClientsConfig{jobMockConfig: jobMockConfig{records: 3}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			s3:    s3MockCalls{uploadOutput: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusProcessed, 0)

	require.Len(t, mocks.rmq.sent, 1)
	msg := mocks.rmq.sent[0]
	assert.Equal(t, "/out/out_data.parquet", msg.Output)
	assert.Equal(t, "prefix//out/out_data.parquet", msg.Key)
	assert.Equal(t, 3, msg.Records)
	assert.Equal(t, "mock", msg.Pipeline)
	assert.Empty(t, msg.Error)
}

func testMissingColumn(t *testing.T) {
	mocks := testConfiguration(t,
		mockedClientsConfig{jobMockConfig: jobMockConfig{err: &columnar.MissingColumnError{
			Path: "/in/data.parquet", Column: "content", Available: []string{"text"},
		}}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusSkipped, 0)
	assert.Contains(t, mocks.rmq.sent[0].Error, `column "content" not found`)
}

func testEmptyFile(t *testing.T) {
	testConfiguration(t,
		mockedClientsConfig{jobMockConfig: jobMockConfig{err: pipeline.ErrEmptyFile}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusSkipped, 0)
}

func testJobFailed(t *testing.T) {
	testConfiguration(t,
		mockedClientsConfig{jobMockConfig: jobMockConfig{err: os.ErrPermission}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusFailed, 0)
}

func testJobPanicked(t *testing.T) {
	mocks := testConfiguration(t,
		mockedClientsConfig{jobMockConfig: jobMockConfig{panic: true}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusFailed, 0)
	assert.Equal(t, "got panic: model exploded", mocks.rmq.sent[0].Error)
}

func testLockFailed(t *testing.T) {
	testConfiguration(t,
		mockedClientsConfig{redisMockConfig: redisMockConfig{lockOutput: failingMethod{true}}},
		methodsCalls{
			redis: redisMockCalls{lockOutput: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusFailed, 0)
}

func testReleaseFailed(t *testing.T) {
	testConfiguration(t,
		mockedClientsConfig{redisMockConfig: redisMockConfig{release: failingMethod{true}}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			s3:    s3MockCalls{uploadOutput: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusProcessed, 0)
}

func testUploadFailed(t *testing.T) {
	mocks := testConfiguration(t,
		mockedClientsConfig{s3MockConfig: s3MockConfig{uploadOutput: failingMethod{true}}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			s3:    s3MockCalls{uploadOutput: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusProcessed, 1)
	assert.Empty(t, mocks.rmq.sent[0].Key)
}

func testNotifyFailed(t *testing.T) {
	testConfiguration(t,
		mockedClientsConfig{rmqMockConfig: rmqMockConfig{notifyFileDone: failingMethod{true}}},
		methodsCalls{
			job:   jobMockCalls{process: true},
			redis: redisMockCalls{lockOutput: true, release: true},
			s3:    s3MockCalls{uploadOutput: true},
			rmq:   rmqMockCalls{notifyFileDone: true},
		},
		StatusProcessed, 1)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.parquet", "a.parquet", "notes.txt", "c.parquet.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.parquet"), 0o755))

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.parquet"), filepath.Join(dir, "b.parquet")}, files)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

// wordAnnotator tags every word NOUN.
type wordAnnotator struct{}

func (wordAnnotator) Tag(_ context.Context, text string) ([]types.Token, error) {
	tokens := tokenizer.Tokenize(text)
	for i := range tokens {
		tokens[i].Pos = "NOUN"
		if tokens[i].IsSpace {
			tokens[i].Pos = types.PosSpace
		}
	}
	return tokens, nil
}

func (wordAnnotator) Segment(_ context.Context, text string) ([]types.Span, error) {
	return []types.Span{{Begin: 0, End: len([]rune(text)), Text: text}}, nil
}

type codeRow struct {
	Content *string `parquet:"content,optional"`
}

type textRow struct {
	Text *string `parquet:"text,optional"`
}

func strPtr(s string) *string {
	return &s
}

func TestRunCodePipeline(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "a.parquet"), []codeRow{{Content: strPtr("foo 123 bar")}}))
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "b.parquet"), []textRow{{Text: strPtr("no content column")}}))
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "c.parquet"), []codeRow{}))
	require.NoError(t, os.WriteFile(filepath.Join(in, "d.parquet"), []byte("garbage"), 0o644))
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "e.parquet"), []codeRow{{Content: strPtr("x = y")}}))

	worker := New(NewCodeJob(wordAnnotator{}, 10), Config{Workers: 3}, Clients{})
	summary, err := worker.Run(context.Background(), in, out)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Files, 5)
	statuses := make([]string, len(summary.Files))
	for i, msg := range summary.Files {
		statuses[i] = msg.Status
	}
	assert.Equal(t, []string{StatusProcessed, StatusSkipped, StatusSkipped, StatusFailed, StatusProcessed}, statuses)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Equal(t, []string{"pos_tagged_a.json", "pos_tagged_e.json"}, names)

	buf, err := os.ReadFile(filepath.Join(out, "pos_tagged_a.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"original_code":"foo 123 bar","tagged_words":[{"word":"foo","line":1,"start":0,"end":3,"pos":"NOUN"},{"word":"bar","line":1,"start":8,"end":11,"pos":"NOUN"}]}`+"\n", string(buf))
}

func TestRunTextPipelineIsIdempotent(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "a.parquet"), []textRow{{Text: strPtr("Hello there")}, {Text: nil}}))

	worker := New(NewTextJob(wordAnnotator{}, output.FormatCSV, 1), Config{Workers: 1}, Clients{})
	_, err := worker.Run(context.Background(), in, out)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(out, "pos_tagged_a.csv"))
	require.NoError(t, err)

	summary, err := worker.Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	second, err := os.ReadFile(filepath.Join(out, "pos_tagged_a.csv"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"sentence,pos_tags", "Hello there,NOUN NOUN", ""}, strings.Split(string(first), "\n"))
}

// panickingAnnotator panics on the first call.
type panickingAnnotator struct{}

func (panickingAnnotator) Tag(context.Context, string) ([]types.Token, error) {
	panic("tagger exploded")
}

func (panickingAnnotator) Segment(context.Context, string) ([]types.Span, error) {
	panic("segmenter exploded")
}

func TestRunPanicLeavesNoOutput(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "a.parquet"), []codeRow{{Content: strPtr("foo bar")}}))
	require.NoError(t, parquet.WriteFile(filepath.Join(in, "b.parquet"), []textRow{{Text: strPtr("Hello there")}}))

	jobs := map[string]Job{
		"code":    NewCodeJob(panickingAnnotator{}, 10),
		"json":    NewTextJob(panickingAnnotator{}, output.FormatJSON, 10),
		"csv":     NewTextJob(panickingAnnotator{}, output.FormatCSV, 10),
		"parquet": NewTextJob(panickingAnnotator{}, output.FormatParquet, 10),
	}
	for name, job := range jobs {
		t.Run(name, func(t *testing.T) {
			out := t.TempDir()
			worker := New(job, Config{Workers: 2}, Clients{})
			for i := 0; i < 2; i++ {
				summary, err := worker.Run(context.Background(), in, out)
				require.NoError(t, err)
				assert.Equal(t, 1, summary.Failed)
				assert.Equal(t, 1, summary.Skipped)
			}

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestRunMissingInputDir(t *testing.T) {
	worker := New(NewCodeJob(wordAnnotator{}, 10), Config{Workers: 1}, Clients{})
	_, err := worker.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}

func TestReadEnvironment(t *testing.T) {
	t.Setenv("POS_WORKERS", "4")
	t.Setenv("POS_PROGRESS", "false")
	config, err := ReadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, Config{Workers: 4, Progress: false}, config)

	t.Setenv("POS_WORKERS", "0")
	_, err = ReadEnvironment()
	assert.Error(t, err)
}
