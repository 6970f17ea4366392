package roadrunner

import (
	"encoding/json"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func TestOperationString(t *testing.T) {
	require.Equal(t, "Get", OpGet.String())
	require.Equal(t, "Upsert", OpUpsert.String())
}

func TestOperationChooserLoadPhase(t *testing.T) {
	chooser := NewOperationChooser(PhaseLoad, 50, 50)
	for i := 0; i < 1000; i++ {
		require.Equal(t, OpUpsert, chooser.Next())
	}
}

func TestOperationChooserRunPhaseRatio(t *testing.T) {
	chooser := NewOperationChooser(PhaseRun, 70, 30)
	total := 20000
	reads := 0
	for i := 0; i < total; i++ {
		if chooser.Next() == OpGet {
			reads++
		}
	}
	fraction := float64(reads) / float64(total)
	require.True(t, fraction > 0.68, "read fraction %f too low", fraction)
	require.True(t, fraction < 0.72, "read fraction %f too high", fraction)
}

func TestOperationChooserSingleSided(t *testing.T) {
	chooser := NewOperationChooser(PhaseRun, 100, 0)
	for i := 0; i < 1000; i++ {
		require.Equal(t, OpGet, chooser.Next())
	}
	chooser = NewOperationChooser(PhaseRun, 0, 100)
	for i := 0; i < 1000; i++ {
		require.Equal(t, OpUpsert, chooser.Next())
	}
}

func TestNewDocumentGenerator(t *testing.T) {
	docGen, err := NewDocumentGenerator("Simple", NewProperties())
	require.Nil(t, err)
	require.NotNil(t, docGen)
	docGen, err = NewDocumentGenerator("Json", NewProperties())
	require.Nil(t, err)
	require.NotNil(t, docGen)
	_, err = NewDocumentGenerator("Exotic", NewProperties())
	require.NotNil(t, err)
}

func TestSimpleDocumentGenerator(t *testing.T) {
	props := Properties{PropertyDocumentSize: "64"}
	docGen, err := NewSimpleDocumentGenerator(props)
	require.Nil(t, err)
	value := docGen.ValueFor("doc::1")
	require.Equal(t, 64, len(value))
	require.Equal(t, "Get", docGen.LabelFor(OpGet))
	require.Equal(t, "Upsert", docGen.LabelFor(OpUpsert))
}

func TestSimpleDocumentGeneratorInvalidSize(t *testing.T) {
	_, err := NewSimpleDocumentGenerator(Properties{PropertyDocumentSize: "0"})
	require.NotNil(t, err)
	_, err = NewSimpleDocumentGenerator(Properties{PropertyDocumentSize: "huge"})
	require.NotNil(t, err)
}

func TestJsonDocumentGenerator(t *testing.T) {
	props := Properties{PropertyDocumentSize: "32"}
	docGen, err := NewJsonDocumentGenerator(props)
	require.Nil(t, err)
	value := docGen.ValueFor("doc::42")
	var doc jsonDocument
	err = json.Unmarshal(value, &doc)
	require.Nil(t, err)
	require.Equal(t, "doc::42", doc.Id)
	require.Equal(t, 32, len(doc.Payload))
	require.Equal(t, "GetJson", docGen.LabelFor(OpGet))
	require.Equal(t, "UpsertJson", docGen.LabelFor(OpUpsert))
}
