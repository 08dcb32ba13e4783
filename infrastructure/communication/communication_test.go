package communication

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectSlackUsesConfiguredChannels(t *testing.T) {
	t.Setenv("SLACK_INFO_CHANNEL", "")
	t.Setenv("SLACK_ERROR_CHANNEL", "")

	s := ConnectSlack("C0INFO", "C0ERRORS")
	assert.Equal(t, "C0INFO", s.options.InfoChannelID)
	assert.Equal(t, "C0ERRORS", s.options.ErrorChannelID)
}

func TestConnectSlackEnvOverridesSettings(t *testing.T) {
	t.Setenv("SLACK_INFO_CHANNEL", "C0LOCAL")
	t.Setenv("SLACK_ERROR_CHANNEL", "")

	s := ConnectSlack("C0INFO", "C0ERRORS")
	assert.Equal(t, "C0LOCAL", s.options.InfoChannelID)
	assert.Equal(t, "C0ERRORS", s.options.ErrorChannelID)
}
