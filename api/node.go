package api

import (
	"sort"
	"time"

	"github.com/NeonGeckoCom/neon-data-models/enums"
	"github.com/NeonGeckoCom/neon-data-models/errors"
	"github.com/NeonGeckoCom/neon-data-models/message"
	"github.com/NeonGeckoCom/neon-data-models/schema"
)

// Canonical discriminator values of the node_v1 message family. Each
// concrete type binds to exactly one value: parsing the concrete type
// fills the value in when omitted and rejects any other explicit value.
const (
	TypeNodeAudioInput         = "neon.audio_input"
	TypeNodeTextInput          = "recognizer_loop:utterance"
	TypeNodeGetStt             = "neon.get_stt"
	TypeNodeGetTts             = "neon.get_tts"
	TypeNodeKlatResponse       = "klat.response"
	TypeNodeAudioInputResponse = "neon.audio_input.response"
	TypeNodeGetSttResponse     = "neon.get_stt.response"
	TypeNodeGetTtsResponse     = "neon.get_tts.response"
	TypeCoreWWDetected         = "neon.ww_detected"
	TypeCoreIntentFailure      = "complete_intent_failure"
	TypeCoreErrorResponse      = "klat.error"
	TypeCoreClearData          = "neon.clear_data"
	TypeCoreAlertExpired       = "neon.alert_expired"
)

// decodeTypedEnvelope validates the discriminator of a concrete variant
// and returns linked decoders for the data payload and the parsed context.
// Both payload and context are required on every envelope.
func decodeTypedEnvelope(d *schema.Decoder, tag string) (*schema.Decoder, message.MessageContext) {
	d.Discriminator("msg_type", tag)
	dataD, ok := d.ChildOrEmpty("data")
	if !ok {
		d.Fail("data", errors.NewMissingField(""))
	}
	var ctx message.MessageContext
	if ctxD, present := d.Child("context"); present {
		ctx = message.DecodeMessageContext(ctxD)
	} else {
		d.Fail("context", errors.NewMissingField(""))
	}
	return dataD, ctx
}

func dumpEnvelope(tag string, data map[string]any, ctx message.MessageContext) map[string]any {
	return map[string]any{
		"msg_type": tag,
		"data":     data,
		"context":  ctx.Dump(),
	}
}

// NodeAudioInput is raw audio sent from a node for processing.
type NodeAudioInput struct {
	Data    AudioInputData
	Context message.MessageContext
}

// AudioInputData is a base64-encoded audio clip with its spoken language.
type AudioInputData struct {
	AudioData string
	Lang      string
}

func decodeAudioInputData(d *schema.Decoder) AudioInputData {
	return AudioInputData{
		AudioData: d.String("audio_data"),
		Lang:      d.String("lang"),
	}
}

func (a AudioInputData) Dump() map[string]any {
	return map[string]any{"audio_data": a.AudioData, "lang": a.Lang}
}

// ParseNodeAudioInput validates and coerces a raw envelope.
func ParseNodeAudioInput(raw map[string]any) (*NodeAudioInput, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeAudioInput)
	m := NodeAudioInput{Data: decodeAudioInputData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeAudioInput) MessageType() string { return TypeNodeAudioInput }

func (m NodeAudioInput) Dump() map[string]any {
	return dumpEnvelope(TypeNodeAudioInput, m.Data.Dump(), m.Context)
}

// NodeTextInput is a typed or transcribed utterance sent from a node.
type NodeTextInput struct {
	Data    TextInputData
	Context message.MessageContext
}

// TextInputData is candidate utterance transcriptions with their language.
type TextInputData struct {
	Utterances []string
	Lang       string
}

func decodeTextInputData(d *schema.Decoder) TextInputData {
	return TextInputData{
		Utterances: d.StringSlice("utterances"),
		Lang:       d.String("lang"),
	}
}

func (t TextInputData) Dump() map[string]any {
	return map[string]any{
		"utterances": append([]string(nil), t.Utterances...),
		"lang":       t.Lang,
	}
}

// ParseNodeTextInput validates and coerces a raw envelope.
func ParseNodeTextInput(raw map[string]any) (*NodeTextInput, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeTextInput)
	m := NodeTextInput{Data: decodeTextInputData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeTextInput) MessageType() string { return TypeNodeTextInput }

func (m NodeTextInput) Dump() map[string]any {
	return dumpEnvelope(TypeNodeTextInput, m.Data.Dump(), m.Context)
}

// NodeGetStt requests a transcription without further skill processing.
type NodeGetStt struct {
	Data    AudioInputData
	Context message.MessageContext
}

// ParseNodeGetStt validates and coerces a raw envelope.
func ParseNodeGetStt(raw map[string]any) (*NodeGetStt, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeGetStt)
	m := NodeGetStt{Data: decodeAudioInputData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeGetStt) MessageType() string { return TypeNodeGetStt }

func (m NodeGetStt) Dump() map[string]any {
	return dumpEnvelope(TypeNodeGetStt, m.Data.Dump(), m.Context)
}

// NodeGetTts requests synthesized speech for a text string.
type NodeGetTts struct {
	Data    GetTtsData
	Context message.MessageContext
}

// GetTtsData is the text to synthesize and the target language.
type GetTtsData struct {
	Text string
	Lang string
}

func decodeGetTtsData(d *schema.Decoder) GetTtsData {
	return GetTtsData{
		Text: d.String("text"),
		Lang: d.String("lang"),
	}
}

func (t GetTtsData) Dump() map[string]any {
	return map[string]any{"text": t.Text, "lang": t.Lang}
}

// ParseNodeGetTts validates and coerces a raw envelope.
func ParseNodeGetTts(raw map[string]any) (*NodeGetTts, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeGetTts)
	m := NodeGetTts{Data: decodeGetTtsData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeGetTts) MessageType() string { return TypeNodeGetTts }

func (m NodeGetTts) Dump() map[string]any {
	return dumpEnvelope(TypeNodeGetTts, m.Data.Dump(), m.Context)
}

// SpokenResponse is one language's rendering of a skill response: the
// sentence plus optional synthesized audio per voice gender. Only "male"
// and "female" audio keys are legal.
type SpokenResponse struct {
	Sentence string
	// Audio maps voice gender to an audio reference; a present key with a
	// nil value means no audio was synthesized for that voice.
	Audio map[string]*string
}

var legalAudioGenders = map[string]struct{}{"male": {}, "female": {}}

// decodeSpokenResponses reads a mapping of language code to response.
// Every key of the payload is a language code; there are no fixed fields.
func decodeSpokenResponses(d *schema.Decoder) map[string]SpokenResponse {
	out := make(map[string]SpokenResponse)
	for lang := range d.Extras() {
		langD, ok := d.Child(lang)
		if !ok {
			continue
		}
		resp := SpokenResponse{
			Sentence: langD.StringDefault("sentence", ""),
			Audio:    map[string]*string{},
		}
		audioD, present := langD.Child("audio")
		if present {
			for gender, v := range audioD.Extras() {
				if _, legal := legalAudioGenders[gender]; !legal {
					audioD.Fail(gender, errors.NewTypeMismatch(
						"", `"male" or "female"`, gender))
					continue
				}
				if v == nil {
					resp.Audio[gender] = nil
					continue
				}
				s, isStr := v.(string)
				if !isStr {
					audioD.Fail(gender, errors.NewTypeMismatch("", "string", v))
					continue
				}
				resp.Audio[gender] = &s
			}
		}
		out[lang] = resp
	}
	return out
}

func dumpSpokenResponses(responses map[string]SpokenResponse) map[string]any {
	out := make(map[string]any, len(responses))
	langs := make([]string, 0, len(responses))
	for lang := range responses {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		resp := responses[lang]
		audio := make(map[string]any, len(resp.Audio))
		for gender, ref := range resp.Audio {
			if ref == nil {
				audio[gender] = nil
			} else {
				audio[gender] = *ref
			}
		}
		out[lang] = map[string]any{
			"sentence": resp.Sentence,
			"audio":    audio,
		}
	}
	return out
}

// NodeKlatResponse is a skill response addressed to a chat conversation,
// keyed by language.
type NodeKlatResponse struct {
	Data    map[string]SpokenResponse
	Context message.MessageContext
}

// ParseNodeKlatResponse validates and coerces a raw envelope.
func ParseNodeKlatResponse(raw map[string]any) (*NodeKlatResponse, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeKlatResponse)
	m := NodeKlatResponse{Data: decodeSpokenResponses(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeKlatResponse) MessageType() string { return TypeNodeKlatResponse }

func (m NodeKlatResponse) Dump() map[string]any {
	return dumpEnvelope(TypeNodeKlatResponse, dumpSpokenResponses(m.Data), m.Context)
}

// SttResponseData is the result of transcribing an audio input.
type SttResponseData struct {
	ParserData  map[string]any
	Transcripts []string
	SkillsRecv  bool
}

func decodeSttResponseData(d *schema.Decoder) SttResponseData {
	return SttResponseData{
		ParserData:  d.Map("parser_data"),
		Transcripts: d.StringSlice("transcripts"),
		SkillsRecv:  d.Bool("skills_recv"),
	}
}

func (s SttResponseData) Dump() map[string]any {
	return map[string]any{
		"parser_data": s.ParserData,
		"transcripts": append([]string(nil), s.Transcripts...),
		"skills_recv": s.SkillsRecv,
	}
}

// NodeAudioInputResponse acknowledges an audio input with its
// transcription results.
type NodeAudioInputResponse struct {
	Data    SttResponseData
	Context message.MessageContext
}

// ParseNodeAudioInputResponse validates and coerces a raw envelope.
func ParseNodeAudioInputResponse(raw map[string]any) (*NodeAudioInputResponse, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeAudioInputResponse)
	m := NodeAudioInputResponse{Data: decodeSttResponseData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeAudioInputResponse) MessageType() string { return TypeNodeAudioInputResponse }

func (m NodeAudioInputResponse) Dump() map[string]any {
	return dumpEnvelope(TypeNodeAudioInputResponse, m.Data.Dump(), m.Context)
}

// NodeGetSttResponse answers a bare transcription request.
type NodeGetSttResponse struct {
	Data    SttResponseData
	Context message.MessageContext
}

// ParseNodeGetSttResponse validates and coerces a raw envelope.
func ParseNodeGetSttResponse(raw map[string]any) (*NodeGetSttResponse, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeGetSttResponse)
	m := NodeGetSttResponse{Data: decodeSttResponseData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeGetSttResponse) MessageType() string { return TypeNodeGetSttResponse }

func (m NodeGetSttResponse) Dump() map[string]any {
	return dumpEnvelope(TypeNodeGetSttResponse, m.Data.Dump(), m.Context)
}

// NodeGetTtsResponse answers a synthesis request, keyed by language.
type NodeGetTtsResponse struct {
	Data    map[string]SpokenResponse
	Context message.MessageContext
}

// ParseNodeGetTtsResponse validates and coerces a raw envelope.
func ParseNodeGetTtsResponse(raw map[string]any) (*NodeGetTtsResponse, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeNodeGetTtsResponse)
	m := NodeGetTtsResponse{Data: decodeSpokenResponses(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m NodeGetTtsResponse) MessageType() string { return TypeNodeGetTtsResponse }

func (m NodeGetTtsResponse) Dump() map[string]any {
	return dumpEnvelope(TypeNodeGetTtsResponse, dumpSpokenResponses(m.Data), m.Context)
}

// CoreWWDetected notifies a node that its wake word was heard.
type CoreWWDetected struct {
	Data    WWDetectedData
	Context message.MessageContext
}

// WWDetectedData names the wake word that triggered listening.
type WWDetectedData struct {
	WakeWord string
}

// ParseCoreWWDetected validates and coerces a raw envelope.
func ParseCoreWWDetected(raw map[string]any) (*CoreWWDetected, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeCoreWWDetected)
	m := CoreWWDetected{
		Data:    WWDetectedData{WakeWord: dataD.String("wake_word")},
		Context: ctx,
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m CoreWWDetected) MessageType() string { return TypeCoreWWDetected }

func (m CoreWWDetected) Dump() map[string]any {
	return dumpEnvelope(TypeCoreWWDetected,
		map[string]any{"wake_word": m.Data.WakeWord}, m.Context)
}

// CoreIntentFailure reports that no skill could handle an utterance. Its
// payload carries no fields.
type CoreIntentFailure struct {
	Context message.MessageContext
}

// ParseCoreIntentFailure validates and coerces a raw envelope.
func ParseCoreIntentFailure(raw map[string]any) (*CoreIntentFailure, error) {
	d := schema.NewDecoder(raw)
	_, ctx := decodeTypedEnvelope(d, TypeCoreIntentFailure)
	m := CoreIntentFailure{Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m CoreIntentFailure) MessageType() string { return TypeCoreIntentFailure }

func (m CoreIntentFailure) Dump() map[string]any {
	return dumpEnvelope(TypeCoreIntentFailure, map[string]any{}, m.Context)
}

// CoreErrorResponse reports a handling error back to the requester.
type CoreErrorResponse struct {
	Data    ErrorResponseData
	Context message.MessageContext
}

// ErrorResponseData is an error description plus the data of the request
// that failed.
type ErrorResponseData struct {
	Error string
	Data  map[string]any
}

// ParseCoreErrorResponse validates and coerces a raw envelope.
func ParseCoreErrorResponse(raw map[string]any) (*CoreErrorResponse, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeCoreErrorResponse)
	m := CoreErrorResponse{
		Data: ErrorResponseData{
			Error: dataD.StringDefault("error", ""),
			Data:  dataD.MapDefault("data"),
		},
		Context: ctx,
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m CoreErrorResponse) MessageType() string { return TypeCoreErrorResponse }

func (m CoreErrorResponse) Dump() map[string]any {
	return dumpEnvelope(TypeCoreErrorResponse, map[string]any{
		"error": m.Data.Error,
		"data":  m.Data.Data,
	}, m.Context)
}

// CoreClearData instructs services to purge stored data for a user.
type CoreClearData struct {
	Data    ClearDataData
	Context message.MessageContext
}

// ClearDataData names the user and the data categories to remove.
type ClearDataData struct {
	Username     string
	DataToRemove []enums.UserData
}

func decodeClearDataData(d *schema.Decoder) ClearDataData {
	data := ClearDataData{Username: d.String("username")}
	v, ok := d.Value("data_to_remove")
	if !ok {
		d.Fail("data_to_remove", errors.NewMissingField(""))
		return data
	}
	list, isList := v.([]any)
	if !isList {
		d.Fail("data_to_remove", errors.NewTypeMismatch("", "list", v))
		return data
	}
	for _, item := range list {
		cat, err := enums.ParseUserData(item)
		if err != nil {
			d.Fail("data_to_remove", errors.NewTypeMismatch(
				"", "UserData name or value", item))
			continue
		}
		data.DataToRemove = append(data.DataToRemove, cat)
	}
	return data
}

// ParseCoreClearData validates and coerces a raw envelope.
func ParseCoreClearData(raw map[string]any) (*CoreClearData, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeCoreClearData)
	m := CoreClearData{Data: decodeClearDataData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m CoreClearData) MessageType() string { return TypeCoreClearData }

func (m CoreClearData) Dump() map[string]any {
	categories := make([]any, 0, len(m.Data.DataToRemove))
	for _, cat := range m.Data.DataToRemove {
		categories = append(categories, int64(cat))
	}
	return dumpEnvelope(TypeCoreClearData, map[string]any{
		"username":       m.Data.Username,
		"data_to_remove": categories,
	}, m.Context)
}

// CoreAlertExpired notifies a node that a scheduled alert came due.
type CoreAlertExpired struct {
	Data    AlertData
	Context message.MessageContext
}

// AlertData is a scheduled alert. The expiration accepts either a
// time.Time or an ISO string and the repeat frequency accepts either a
// time.Duration or a raw seconds count; equal magnitudes construct equal
// records.
type AlertData struct {
	AlertType          enums.AlertType
	Priority           int64
	NextExpirationTime time.Time
	RepeatFrequency    *time.Duration
	RepeatDays         []int64
	EndRepeat          *time.Time
	AlertName          string
	Context            map[string]any
}

func decodeAlertData(d *schema.Decoder) AlertData {
	data := AlertData{
		Priority:           d.Int64Default("priority", 5),
		NextExpirationTime: d.Time("next_expiration_time"),
		RepeatFrequency:    d.DurationPtr("repeat_frequency"),
		EndRepeat:          d.TimePtr("end_repeat"),
		AlertName:          d.String("alert_name"),
		Context:            d.MapDefault("context"),
	}
	if v, ok := d.Value("alert_type"); ok {
		alertType, err := enums.ParseAlertType(v)
		if err != nil {
			d.Fail("alert_type", errors.NewTypeMismatch(
				"", "AlertType name or value", v))
		}
		data.AlertType = alertType
	} else {
		data.AlertType = enums.AlertUnknown
	}
	if v, ok := d.Value("repeat_days"); ok {
		list, isList := v.([]any)
		if !isList {
			d.Fail("repeat_days", errors.NewTypeMismatch("", "list of weekdays", v))
		}
		for _, item := range list {
			day, err := schema.ParseEpoch(item)
			if err != nil || day < 0 || day > 6 {
				d.Fail("repeat_days", errors.NewTypeMismatch("", "weekday 0-6", item))
				continue
			}
			data.RepeatDays = append(data.RepeatDays, day)
		}
	}
	return data
}

// ParseCoreAlertExpired validates and coerces a raw envelope.
func ParseCoreAlertExpired(raw map[string]any) (*CoreAlertExpired, error) {
	d := schema.NewDecoder(raw)
	dataD, ctx := decodeTypedEnvelope(d, TypeCoreAlertExpired)
	m := CoreAlertExpired{Data: decodeAlertData(dataD), Context: ctx}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m CoreAlertExpired) MessageType() string { return TypeCoreAlertExpired }

func (m CoreAlertExpired) Dump() map[string]any {
	data := map[string]any{
		"alert_type":           int64(m.Data.AlertType),
		"priority":             m.Data.Priority,
		"next_expiration_time": schema.FormatTime(m.Data.NextExpirationTime),
		"repeat_frequency":     nil,
		"repeat_days":          nil,
		"end_repeat":           nil,
		"alert_name":           m.Data.AlertName,
		"context":              m.Data.Context,
	}
	if m.Data.RepeatFrequency != nil {
		data["repeat_frequency"] = schema.DurationSeconds(*m.Data.RepeatFrequency)
	}
	if m.Data.RepeatDays != nil {
		days := make([]any, 0, len(m.Data.RepeatDays))
		for _, day := range m.Data.RepeatDays {
			days = append(days, day)
		}
		data["repeat_days"] = days
	}
	if m.Data.EndRepeat != nil {
		data["end_repeat"] = schema.FormatTime(*m.Data.EndRepeat)
	}
	return dumpEnvelope(TypeCoreAlertExpired, data, m.Context)
}

// nodeRegistry is the static dispatch table for the node_v1 family.
var nodeRegistry = message.NewRegistry()

func init() {
	register := func(tag string, parse func(map[string]any) (message.Envelope, error)) {
		nodeRegistry.MustRegister(tag, parse)
	}
	register(TypeNodeAudioInput, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeAudioInput(raw)
	})
	register(TypeNodeTextInput, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeTextInput(raw)
	})
	register(TypeNodeGetStt, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeGetStt(raw)
	})
	register(TypeNodeGetTts, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeGetTts(raw)
	})
	register(TypeNodeKlatResponse, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeKlatResponse(raw)
	})
	register(TypeNodeAudioInputResponse, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeAudioInputResponse(raw)
	})
	register(TypeNodeGetSttResponse, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeGetSttResponse(raw)
	})
	register(TypeNodeGetTtsResponse, func(raw map[string]any) (message.Envelope, error) {
		return ParseNodeGetTtsResponse(raw)
	})
	register(TypeCoreWWDetected, func(raw map[string]any) (message.Envelope, error) {
		return ParseCoreWWDetected(raw)
	})
	register(TypeCoreIntentFailure, func(raw map[string]any) (message.Envelope, error) {
		return ParseCoreIntentFailure(raw)
	})
	register(TypeCoreErrorResponse, func(raw map[string]any) (message.Envelope, error) {
		return ParseCoreErrorResponse(raw)
	})
	register(TypeCoreClearData, func(raw map[string]any) (message.Envelope, error) {
		return ParseCoreClearData(raw)
	})
	register(TypeCoreAlertExpired, func(raw map[string]any) (message.Envelope, error) {
		return ParseCoreAlertExpired(raw)
	})
}

// ParseNodeMessage resolves a raw envelope to its node_v1 variant by its
// msg_type. Unregistered values are an UnknownMessageType error.
func ParseNodeMessage(raw map[string]any) (message.Envelope, error) {
	return nodeRegistry.Parse(raw)
}

// NodeMessageTypes returns the discriminator values of the node_v1 family.
func NodeMessageTypes() []string {
	return nodeRegistry.Types()
}
