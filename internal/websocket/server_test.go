package websocket

import (
	"testing"

	"github.com/skybrief/wx-hub/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestParseStationFilter(t *testing.T) {
	filters := parseStationFilter(map[string]any{
		"stations": []any{"CYYZ", "kjfk"},
	})

	assert.True(t, filters.Stations["CYYZ"])
	assert.True(t, filters.Stations["KJFK"])
	assert.False(t, filters.Stations["EGLL"])
}

func TestParseStationFilterEmpty(t *testing.T) {
	filters := parseStationFilter(map[string]any{})
	assert.Empty(t, filters.Stations)
}

func TestClientMatchesStation(t *testing.T) {
	client := &Client{}

	// No filter set means every station matches.
	assert.True(t, client.MatchesStation("CYYZ"))

	client.UpdateFilters(&ClientFilters{Stations: map[string]bool{"CYYZ": true}})
	assert.True(t, client.MatchesStation("CYYZ"))
	assert.False(t, client.MatchesStation("KJFK"))

	// An explicitly empty set also matches everything.
	client.UpdateFilters(&ClientFilters{Stations: map[string]bool{}})
	assert.True(t, client.MatchesStation("KJFK"))
}

func TestShouldSendToClient(t *testing.T) {
	s := NewServer(logger.NewNop())
	client := &Client{}
	client.UpdateFilters(&ClientFilters{Stations: map[string]bool{"CYYZ": true}})

	update := &Message{
		Type: MessageTypeWeatherUpdate,
		Data: map[string]any{"station": "KJFK"},
	}
	assert.False(t, s.shouldSendToClient(client, update))

	update.Data["station"] = "CYYZ"
	assert.True(t, s.shouldSendToClient(client, update))

	// Non-update messages are not filtered.
	snapshot := &Message{Type: MessageTypeWeatherSnapshot, Data: map[string]any{"station": "KJFK"}}
	assert.True(t, s.shouldSendToClient(client, snapshot))
}
