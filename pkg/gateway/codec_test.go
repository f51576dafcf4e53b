package gateway_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sticky/pkg/core"
	"github.com/aretw0/sticky/pkg/gateway"
)

func sampleNotes() []core.Note {
	done := fixedNow.Add(2 * time.Minute)
	return []core.Note{
		{
			ID: "n1", Title: "Work", Content: "standup notes", Color: core.ColorGreen,
			UpdatedAt: fixedNow,
			Todos: []core.Todo{
				{ID: "t1", Text: "write report", CreatedAt: fixedNow},
				{ID: "t2", Text: "email", Completed: true, CreatedAt: fixedNow, CompletedAt: &done},
			},
		},
		{ID: "n2", Title: "Empty", Content: "nothing", Color: core.ColorYellow, UpdatedAt: fixedNow, Todos: []core.Todo{}},
	}
}

func TestYAMLCodec_ExportImport(t *testing.T) {
	gw, _ := setupGateway(t)
	codec := gateway.Codecs()["yaml"]
	require.NotNil(t, codec)

	data, err := gw.Export(sampleNotes(), codec)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Work")

	notes, report := gw.DecodeWith(codec, data)
	assert.False(t, report.Corrupt)
	assert.Equal(t, sampleNotes(), notes)
}

func TestJSONCodec_Indent(t *testing.T) {
	data, err := gateway.JSONCodec{Indent: true}.Encode(sampleNotes()[:1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")
	assert.Contains(t, string(data), `"updatedAt": "2024-03-01T12:00:00.000Z"`)
	assert.NotContains(t, string(data), `"completedAt": null`)
}

func TestYAMLCodec_NotASequence(t *testing.T) {
	_, err := gateway.YAMLCodec{}.Decode([]byte("title: lonely"))
	assert.ErrorIs(t, err, gateway.ErrNotArray)
}
