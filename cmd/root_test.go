package cmd

import (
	"testing"
	"time"

	"raffler/models"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsePolicy(t *testing.T) {
	tests := []struct {
		uses     int
		expected string
		wantErr  bool
	}{
		{uses: 1, expected: "once"},
		{uses: 4, expected: "4 uses"},
		{uses: -1, expected: "unlimited"},
		{uses: 0, wantErr: true},
		{uses: -5, wantErr: true},
	}

	for _, tt := range tests {
		policy, err := usePolicy(tt.uses)
		if tt.wantErr {
			assert.Error(t, err, "uses=%d", tt.uses)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, policy.String())
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("user ID", "123456789012")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789012), id)

	_, err = parseID("user ID", "abc")
	assert.ErrorContains(t, err, "user ID")
}

func TestRedeemMessage(t *testing.T) {
	for _, result := range []models.RedeemResult{
		models.RedeemResultRedeemed,
		models.RedeemResultAlreadyRedeemed,
		models.RedeemResultNonExistingUser,
		models.RedeemResultNonExistingCode,
	} {
		assert.NotEqual(t, string(result), redeemMessage(result))
	}
}

func TestDescribeRaffle(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	raffle := &models.Raffle{ID: 3, Name: "Spring", StartedWhen: started}
	assert.Equal(t, `raffle 3 "Spring" running since 2025-06-01T12:00:00Z`, describeRaffle(raffle))

	ended := started.Add(24 * time.Hour)
	raffle.EndedWhen = &ended
	assert.Equal(t, `raffle 3 "Spring" ended 2025-06-02T12:00:00Z`, describeRaffle(raffle))
}

func TestConfigureLogging(t *testing.T) {
	original := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(original) })

	require.NoError(t, configureLogging("warn", false))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	require.NoError(t, configureLogging("warn", true))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.Error(t, configureLogging("loud", false))
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"code", "generate"},
		{"code", "validate"},
		{"code", "delete"},
		{"raffle", "start"},
		{"raffle", "status"},
		{"raffle", "stop"},
		{"raffle", "winners"},
		{"participants"},
		{"join"},
		{"leave"},
		{"redeem"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err, "%v", path)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}
