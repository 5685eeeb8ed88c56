// Package report sends periodic task summaries to subscribed users.
//
// A Dispatcher loads the subscriptions for one or more frequencies, queues
// one Job per user and frequency, and lets a bounded WorkerPool build each
// Summary and hand it to a Mailer. A failing recipient is counted and logged
// without stopping the rest of the batch.
package report
