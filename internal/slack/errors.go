package slack

import "fmt"

// TransportError reports a failed call to the Slack Web API.
type TransportError struct {
	Op      string
	Channel string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("slack %s (channel %s): %v", e.Op, e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HistoryFetchError reports that a channel's history could not be read.
type HistoryFetchError struct {
	Channel string
	Err     error
}

func (e *HistoryFetchError) Error() string {
	return fmt.Sprintf("fetch history of channel %s: %v", e.Channel, e.Err)
}

func (e *HistoryFetchError) Unwrap() error {
	return e.Err
}
