package models

import "strings"

// Channel is a notification delivery medium. The wire keeps channels as
// free-form strings; dispatch goes through ParseChannel so anything outside
// the closed set lands on ChannelUnknown.
type Channel string

const (
	ChannelEmail     Channel = "EMAIL"
	ChannelSMS       Channel = "SMS"
	ChannelPush      Channel = "PUSH"
	ChannelWebSocket Channel = "WEBSOCKET"
	ChannelUnknown   Channel = ""
)

// DefaultChannel is used whenever a caller does not specify a channel.
const DefaultChannel = string(ChannelEmail)

// ParseChannel matches a channel name case-insensitively.
// Unrecognized names map to ChannelUnknown rather than an error; the
// processor treats those as a no-op delivery.
func ParseChannel(name string) Channel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "EMAIL":
		return ChannelEmail
	case "SMS":
		return ChannelSMS
	case "PUSH":
		return ChannelPush
	case "WEBSOCKET":
		return ChannelWebSocket
	default:
		return ChannelUnknown
	}
}
