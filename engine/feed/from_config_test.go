package feed

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromConfig(t *testing.T) {
	f, err := FromConfig(config.FeedConfig{Type: config.FeedSpnav, Socket: "/tmp/x.sock"})
	require.NoError(t, err)
	assert.Equal(t, "spnav:/tmp/x.sock", f.Name())

	f, err = FromConfig(config.FeedConfig{Type: config.FeedMQTT, Broker: "tcp://localhost:1883", Topic: "axes"})
	require.NoError(t, err)
	assert.Equal(t, "mqtt:tcp://localhost:1883/axes", f.Name())

	_, err = FromConfig(config.FeedConfig{Type: config.FeedSerial})
	assert.Error(t, err)
	_, err = FromConfig(config.FeedConfig{Type: config.FeedMQTT})
	assert.Error(t, err)

	_, err = FromConfig(config.FeedConfig{Type: config.FeedJoystick})
	assert.True(t, errors.Is(err, ErrUnknownFeed))
}
