package feed

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/spacenav/config"
)

// ErrUnknownFeed is returned by FromConfig for a feed type it cannot build.
var ErrUnknownFeed = errors.New("unknown feed type")

// FromConfig builds the goroutine-driven feed a FeedConfig names. The joystick feed is polled
// from the window and is not built here.
//
// Parameters:
//   - fc: the feed settings
//
// Returns:
//   - Feed: the feed
//   - error: ErrUnknownFeed, or a missing required setting
func FromConfig(fc config.FeedConfig) (Feed, error) {
	switch fc.Type {
	case config.FeedSpnav:
		path := fc.Socket
		if path == "" {
			found, ok := FindSpnavSocket(SpnavSocketPaths)
			if !ok {
				return nil, errors.New("no spacenavd socket found")
			}
			path = found
		}
		return NewSpnavFeed(path, nil), nil
	case config.FeedSerial:
		if fc.Port == "" {
			return nil, errors.New("serial feed needs a port")
		}
		return NewSerialFeed(fc.Port, fc.Baud), nil
	case config.FeedMQTT:
		if fc.Broker == "" {
			return nil, errors.New("mqtt feed needs a broker")
		}
		return NewMQTTFeed(fc.Broker, fc.Topic, fc.ClientID), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFeed, fc.Type)
}
