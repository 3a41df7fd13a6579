package warehouse

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHazardFlagsContains(t *testing.T) {
	t.Parallel()

	assert.True(t, None.Contains(None))
	assert.True(t, Chemical.Contains(None))
	assert.True(t, (Chemical | Nuclear).Contains(Nuclear))
	assert.False(t, Nuclear.Contains(Chemical))
	assert.False(t, None.Contains(Flammable))
}

func TestParseHazards(t *testing.T) {
	t.Parallel()

	got, err := ParseHazards("Chemical", " nuclear ", "", "none")
	require.NoError(t, err)
	assert.Equal(t, Chemical|Nuclear, got)
	assert.Equal(t, "chemical|nuclear", got.String())
	assert.Equal(t, "none", None.String())

	_, err = ParseHazards("radioactive")
	assert.True(t, errors.Is(err, ErrUnknownHazard))
}

func TestHazardFlagsJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(RoomSpec{Name: "vault", Capacity: 150, Hazards: Chemical | Biological})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"vault","capacity":150,"stairs":false,"hazards":["chemical","biological"]}`, string(data))

	var spec BoxSpec
	require.NoError(t, json.Unmarshal([]byte(`{"name":"b","volume":3,"hazards":3}`), &spec))
	assert.Equal(t, Chemical|Nuclear, spec.Hazards)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"b","volume":3,"hazards":null}`), &spec))
	assert.Equal(t, None, spec.Hazards)

	err = json.Unmarshal([]byte(`{"name":"b","hazards":["acid"]}`), &spec)
	assert.True(t, errors.Is(err, ErrUnknownHazard))

	err = json.Unmarshal([]byte(`{"name":"b","hazards":64}`), &spec)
	assert.True(t, errors.Is(err, ErrUnknownHazard))
}

func TestHazardFlagsYAML(t *testing.T) {
	t.Parallel()

	var specs []RoomSpec
	input := `
- name: vault
  capacity: 150
  hazards: [chemical, nuclear]
- name: loft
  capacity: 100
  stairs: true
  hazards: flammable
- name: legacy
  capacity: 10
  hazards: 4
- name: dock
  capacity: 100
`
	require.NoError(t, yaml.Unmarshal([]byte(input), &specs))
	require.Len(t, specs, 4)
	assert.Equal(t, Chemical|Nuclear, specs[0].Hazards)
	assert.Equal(t, Flammable, specs[1].Hazards)
	assert.True(t, specs[1].Stairs)
	assert.Equal(t, Biological, specs[2].Hazards)
	assert.Equal(t, None, specs[3].Hazards)

	out, err := yaml.Marshal(specs[0])
	require.NoError(t, err)
	var roundTrip RoomSpec
	require.NoError(t, yaml.Unmarshal(out, &roundTrip))
	assert.Equal(t, specs[0], roundTrip)
}
