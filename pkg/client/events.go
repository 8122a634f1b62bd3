package client

import (
	"github.com/ninja0404/pumpcurve-sdk/pkg/program/pump"
)

// ParseTradeEvents decodes trade events from transaction log lines.
// Decoding is best-effort: undecodable payload lines come back as failures
// alongside whatever decoded cleanly.
func (c *Client) ParseTradeEvents(logs []string) ([]pump.TradeEvent, []pump.EventDecodeFailure) {
	events, failures := pump.DecodeTradeEvents(logs)
	if len(failures) > 0 {
		c.log.Warn().
			Int("decoded", len(events)).
			Int("failed", len(failures)).
			Msg("some event logs could not be decoded")
	}
	return events, failures
}

// ParseCreateEvents decodes token launch events from transaction log lines.
func (c *Client) ParseCreateEvents(logs []string) ([]pump.CreateEvent, []pump.EventDecodeFailure) {
	return pump.DecodeCreateEvents(logs)
}

// ParseCompleteEvents decodes curve completion events from transaction log
// lines.
func (c *Client) ParseCompleteEvents(logs []string) ([]pump.CompleteEvent, []pump.EventDecodeFailure) {
	return pump.DecodeCompleteEvents(logs)
}
