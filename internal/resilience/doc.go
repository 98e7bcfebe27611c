// Package resilience groups the circuit breaker and retry helpers this
// pipeline wraps its outbound calls in: RSS/article fetches through
// httpfetch.Client, and Claude/OpenAI chat completions through the llm
// package. Both subpackages expose named configs per call site rather than
// one generic default, since a stalled LLM call and a flaky publisher feed
// warrant different trip thresholds and backoff schedules.
//
// httpfetch.NewClient wires the two together for feed and article fetches:
//
//	breaker := circuitbreaker.New(circuitbreaker.FeedFetchConfig())
//	_, err := breaker.Execute(func() (interface{}, error) {
//	    return nil, retry.WithBackoff(ctx, retry.FeedFetchConfig(), fetchOnce)
//	})
//
// llm.Claude and llm.OpenAI follow the same shape with ClaudeAPIConfig/
// OpenAIAPIConfig and retry.AIAPIConfig.
package resilience
