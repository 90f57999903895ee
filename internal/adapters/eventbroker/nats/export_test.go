package nats

var RetryDelay = retryDelay
