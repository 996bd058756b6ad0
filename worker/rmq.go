package worker

import (
	"text2phenotype.com/postag/rmq"
)

type rmqTransactions interface {
	notifyFileDone(msg Message) error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) notifyFileDone(msg Message) error {
	return wrapper.rmqClient.Publish(msg)
}
