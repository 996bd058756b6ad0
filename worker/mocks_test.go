package worker

import (
	"context"
	"errors"
	"path/filepath"

	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/redis"
)

type failingMethod struct {
	fail bool
}

type jobMock struct {
	config jobMockConfig
	calls  jobMockCalls
}

type jobMockConfig struct {
	err     error
	panic   bool
	records int
}

type jobMockCalls struct {
	process bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	lockOutput failingMethod
	release    failingMethod
}

type redisMockCalls struct {
	lockOutput bool
	release    bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
}

type s3MockConfig struct {
	uploadOutput failingMethod
}

type s3MockCalls struct {
	uploadOutput bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
	sent   []Message
}

type rmqMockConfig struct {
	notifyFileDone failingMethod
}

type rmqMockCalls struct {
	notifyFileDone bool
}

func (mock *jobMock) Name() string {
	return "mock"
}

func (mock *jobMock) OutputName(input string) string {
	return "out_" + filepath.Base(input)
}

func (mock *jobMock) Process(_ context.Context, input, outputPath string, progress pipeline.Progress) (pipeline.FileResult, error) {
	mock.calls.process = true
	if mock.config.panic {
		panic("model exploded")
	}
	if mock.config.err != nil {
		return pipeline.FileResult{}, mock.config.err
	}
	progress.Start(int64(mock.config.records))
	progress.Add(mock.config.records)
	progress.Done()
	return pipeline.FileResult{Input: input, Output: outputPath, Rows: int64(mock.config.records), Records: mock.config.records}, nil
}

func (mock *redisMock) lockOutput(context.Context, string) (redis.ReleaseLock, error) {
	mock.calls.lockOutput = true
	if mock.config.lockOutput.fail {
		return nil, errors.New("lock is held")
	}
	return func() error {
		mock.calls.release = true
		if mock.config.release.fail {
			return errors.New("lock expired")
		}
		return nil
	}, nil
}

func (mock *redisMock) close() {}

func (mock *s3Mock) uploadOutput(_ context.Context, outputPath string) (string, error) {
	mock.calls.uploadOutput = true
	if mock.config.uploadOutput.fail {
		return "", errors.New("access denied")
	}
	return "prefix/" + outputPath, nil
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) notifyFileDone(msg Message) error {
	mock.calls.notifyFileDone = true
	mock.sent = append(mock.sent, msg)
	if mock.config.notifyFileDone.fail {
		return errors.New("channel closed")
	}
	return nil
}

func (mock *rmqMock) close() {}

type mockedClientsConfig struct {
	jobMockConfig
	redisMockConfig
	s3MockConfig
	rmqMockConfig
}

type mockedClients struct {
	job   *jobMock
	redis *redisMock
	s3    *s3Mock
	rmq   *rmqMock
}

type methodsCalls struct {
	job   jobMockCalls
	redis redisMockCalls
	s3    s3MockCalls
	rmq   rmqMockCalls
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	job := &jobMock{config: config.jobMockConfig}
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}

	fdlLogger := logger.NewLogger("Test Worker")

	return &Worker{
			config:    Config{Workers: 1},
			job:       job,
			redis:     redis,
			s3:        s3,
			rmq:       rmq,
			bars:      noBars{},
			fdlLogger: &fdlLogger,
		}, &mockedClients{
			job:   job,
			redis: redis,
			s3:    s3,
			rmq:   rmq,
		}
}
