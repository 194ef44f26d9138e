package common

const (
	RedisStreamRunExecution = "scrape.run.execution"

	RedisStreamGroup    = "executor-group"
	RedisStreamConsumer = "executor-consumer"

	RedisKeyDiscussionClaim = "pipeline:claim:discussion:"
	RedisKeyRunCancel       = "scrape.run.cancel:"
)
