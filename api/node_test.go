package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeonGeckoCom/neon-data-models/enums"
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

func audioEnvelope(extra map[string]any) map[string]any {
	raw := map[string]any{
		"data":    map[string]any{"audio_data": "abc123", "lang": "en-us"},
		"context": map[string]any{},
	}
	for k, v := range extra {
		raw[k] = v
	}
	return raw
}

func TestNodeAudioInput(t *testing.T) {
	// Wrong explicit discriminator is rejected.
	_, err := ParseNodeAudioInput(audioEnvelope(map[string]any{
		"msg_type": "bad_message_type",
	}))
	assert.True(t, errors.IsTypeMismatch(err))

	// Missing context is rejected.
	_, err = ParseNodeAudioInput(map[string]any{
		"data": map[string]any{"audio_data": "abc123", "lang": "en-us"},
	})
	assert.True(t, errors.IsMissingField(err))

	// Omitting the discriminator equals supplying its one legal value.
	implicit, err := ParseNodeAudioInput(audioEnvelope(nil))
	require.NoError(t, err)
	explicit, err := ParseNodeAudioInput(audioEnvelope(map[string]any{
		"msg_type": TypeNodeAudioInput,
	}))
	require.NoError(t, err)
	assert.Equal(t, *implicit, *explicit)
	assert.Equal(t, "abc123", implicit.Data.AudioData)
}

func TestNodeTextInput(t *testing.T) {
	raw := map[string]any{
		"data":    map[string]any{"utterances": []any{"abc123"}, "lang": "en-us"},
		"context": map[string]any{},
	}
	m, err := ParseNodeTextInput(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc123"}, m.Data.Utterances)

	// Payload fields are required.
	_, err = ParseNodeTextInput(map[string]any{
		"data": map[string]any{"lang": "en-us"}, "context": map[string]any{},
	})
	assert.True(t, errors.IsMissingField(err))
}

func TestNodeKlatResponse(t *testing.T) {
	valid := map[string]any{
		"data": map[string]any{
			"en-us": map[string]any{
				"sentence": "test",
				"audio":    map[string]any{"male": nil, "female": nil},
			},
		},
		"context": map[string]any{},
	}
	m, err := ParseNodeKlatResponse(valid)
	require.NoError(t, err)
	require.Contains(t, m.Data, "en-us")
	assert.Equal(t, "test", m.Data["en-us"].Sentence)
	assert.Contains(t, m.Data["en-us"].Audio, "male")
	assert.Nil(t, m.Data["en-us"].Audio["male"])

	// Only male and female voice keys are legal.
	_, err = ParseNodeKlatResponse(map[string]any{
		"data": map[string]any{
			"en-us": map[string]any{
				"sentence": "test",
				"audio":    map[string]any{"FAIL": nil, "female": nil},
			},
		},
		"context": map[string]any{},
	})
	assert.True(t, errors.IsTypeMismatch(err))

	// A language entry must be a mapping.
	_, err = ParseNodeKlatResponse(map[string]any{
		"data":    map[string]any{"en-us": "audio_file"},
		"context": map[string]any{},
	})
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestSttResponseVariants(t *testing.T) {
	raw := map[string]any{
		"data": map[string]any{
			"parser_data": map[string]any{},
			"transcripts": []any{""},
			"skills_recv": true,
		},
		"context": map[string]any{},
	}
	audio, err := ParseNodeAudioInputResponse(raw)
	require.NoError(t, err)
	assert.True(t, audio.Data.SkillsRecv)
	assert.Equal(t, TypeNodeAudioInputResponse, audio.MessageType())

	stt, err := ParseNodeGetSttResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, stt.Data.Transcripts)
}

func TestCoreWWDetected(t *testing.T) {
	m, err := ParseCoreWWDetected(map[string]any{
		"data":    map[string]any{"wake_word": "hey_neon"},
		"context": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "hey_neon", m.Data.WakeWord)
}

func TestCoreIntentFailure(t *testing.T) {
	m, err := ParseCoreIntentFailure(map[string]any{
		"data":    map[string]any{},
		"context": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, TypeCoreIntentFailure, m.MessageType())

	_, err = ParseCoreIntentFailure(map[string]any{"data": map[string]any{}})
	assert.True(t, errors.IsMissingField(err))
}

func TestCoreErrorResponse(t *testing.T) {
	m, err := ParseCoreErrorResponse(map[string]any{
		"data":    map[string]any{"error": "test error", "data": map[string]any{"testing": true}},
		"context": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "test error", m.Data.Error)

	// The error string defaults empty.
	m, err = ParseCoreErrorResponse(map[string]any{
		"data":    map[string]any{},
		"context": map[string]any{},
	})
	require.NoError(t, err)
	assert.Equal(t, "", m.Data.Error)
}

func TestCoreClearData(t *testing.T) {
	byName, err := ParseCoreClearData(map[string]any{
		"data": map[string]any{
			"username":       "test_user",
			"data_to_remove": []any{"ALL_DATA"},
		},
		"context": map[string]any{},
	})
	require.NoError(t, err)

	byValue, err := ParseCoreClearData(map[string]any{
		"data": map[string]any{
			"username":       "test_user",
			"data_to_remove": []any{0},
		},
		"context": map[string]any{},
	})
	require.NoError(t, err)

	// Name and integer forms construct equal records.
	assert.Equal(t, *byName, *byValue)
	assert.Equal(t, []enums.UserData{enums.UserDataAll}, byName.Data.DataToRemove)

	_, err = ParseCoreClearData(map[string]any{
		"data": map[string]any{
			"username":       "test_user",
			"data_to_remove": []any{42},
		},
		"context": map[string]any{},
	})
	assert.True(t, errors.IsTypeMismatch(err))
}

func TestCoreAlertExpiredDualRepresentation(t *testing.T) {
	expiration := time.Now().UTC().Add(30 * time.Minute)
	frequency := 24 * time.Hour

	base := map[string]any{
		"alert_type":  enums.AlertAlarm,
		"priority":    7,
		"repeat_days": nil,
		"end_repeat":  nil,
		"alert_name":  "Test Alert",
		"context":     map[string]any{},
	}
	typed := map[string]any{}
	for k, v := range base {
		typed[k] = v
	}
	typed["next_expiration_time"] = expiration
	typed["repeat_frequency"] = frequency

	wire := map[string]any{}
	for k, v := range base {
		wire[k] = v
	}
	wire["next_expiration_time"] = expiration.Format(time.RFC3339Nano)
	wire["repeat_frequency"] = frequency.Seconds()

	fromTyped, err := ParseCoreAlertExpired(map[string]any{
		"data": typed, "context": map[string]any{},
	})
	require.NoError(t, err)
	fromWire, err := ParseCoreAlertExpired(map[string]any{
		"data": wire, "context": map[string]any{},
	})
	require.NoError(t, err)

	// Equal magnitudes construct equal records regardless of representation.
	assert.Equal(t, *fromTyped, *fromWire)
	assert.Equal(t, enums.AlertAlarm, fromTyped.Data.AlertType)
	assert.Equal(t, int64(7), fromTyped.Data.Priority)
	require.NotNil(t, fromTyped.Data.RepeatFrequency)
	assert.Equal(t, frequency, *fromTyped.Data.RepeatFrequency)

	// And the dump loads back to the same record.
	again, err := ParseCoreAlertExpired(fromTyped.Dump())
	require.NoError(t, err)
	assert.Equal(t, *fromTyped, *again)
}

func TestParseNodeMessageDispatch(t *testing.T) {
	m, err := ParseNodeMessage(map[string]any{
		"msg_type": TypeNodeGetTts,
		"data":     map[string]any{"text": "hello", "lang": "en-us"},
		"context":  map[string]any{},
	})
	require.NoError(t, err)
	tts, ok := m.(*NodeGetTts)
	require.True(t, ok)
	assert.Equal(t, "hello", tts.Data.Text)

	_, err = ParseNodeMessage(map[string]any{
		"msg_type": "neon.not_a_thing",
		"data":     map[string]any{},
		"context":  map[string]any{},
	})
	assert.True(t, errors.IsUnknownMessageType(err))

	assert.Contains(t, NodeMessageTypes(), TypeNodeAudioInput)
	assert.Len(t, NodeMessageTypes(), 13)
}

func TestDecodeTypedEnvelopeMissingData(t *testing.T) {
	d := schema.NewDecoder(map[string]any{"context": map[string]any{}})
	decodeTypedEnvelope(d, TypeNodeGetStt)
	assert.True(t, errors.IsMissingField(d.Err()))
}
