package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

func sampleReport(t *testing.T) Report {
	t.Helper()

	rooms := []*warehouse.Room{
		warehouse.NewRoom("vault", 150, false, warehouse.Chemical|warehouse.Nuclear),
		warehouse.NewRoom("main", 1000, false, warehouse.None),
	}
	boxes := []*warehouse.Box{
		warehouse.NewBox("box1", 60, warehouse.None),
		warehouse.NewBox("box2", 60, warehouse.None),
		warehouse.NewBox("box3", 60, warehouse.Chemical),
		warehouse.NewBox("box4", 5, warehouse.Biological),
	}
	result := warehouse.New().Run(rooms, boxes)
	return New("batch-1", rooms, result)
}

func TestNew(t *testing.T) {
	rep := sampleReport(t)

	assert.Equal(t, "batch-1", rep.BatchID)
	assert.Equal(t, 3, rep.AcceptedCount)
	assert.Equal(t, 1, rep.RejectedCount)
	require.Len(t, rep.Rooms, 2)
	assert.Equal(t, []string{"box1", "box3"}, rep.Rooms[0].Boxes)
	assert.Equal(t, 120, rep.Rooms[0].UsedVolume)
	assert.Equal(t, 30, rep.Rooms[0].Remaining)
	assert.Equal(t, 940, rep.Rooms[1].Remaining)
	assert.Equal(t, []string{"box2"}, rep.Rooms[1].Boxes)
	assert.Equal(t, []RejectedBox{
		{Name: "box4", Volume: 5, Hazards: warehouse.Biological, Reason: warehouse.ReasonIncompatible},
	}, rep.Rejected)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatJSON))

	var decoded struct {
		BatchID  string `json:"batchId"`
		Rejected []struct {
			Name    string   `json:"name"`
			Hazards []string `json:"hazards"`
			Reason  string   `json:"reason"`
		} `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "batch-1", decoded.BatchID)
	require.Len(t, decoded.Rejected, 1)
	assert.Equal(t, []string{"biological"}, decoded.Rejected[0].Hazards)
	assert.Equal(t, "incompatible", decoded.Rejected[0].Reason)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatYAML))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleReport(t), decoded)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport(t), FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	rooms, err := f.GetRows(roomsSheet)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, "Room", rooms[0][0])
	assert.Equal(t, "vault", rooms[1][0])
	assert.Equal(t, "chemical|nuclear", rooms[1][3])
	assert.Equal(t, []string{"120", "30"}, rooms[1][4:6])
	assert.Equal(t, "box1, box3", rooms[1][6])

	rejected, err := f.GetRows(rejectedSheet)
	require.NoError(t, err)
	require.Len(t, rejected, 2)
	assert.Equal(t, []string{"box4", "5", "biological", "incompatible"}, rejected[1])
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, "xlsx": FormatXLSX} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, Write(&bytes.Buffer{}, Report{}, Format("csv")), ErrUnsupportedFormat)
}
