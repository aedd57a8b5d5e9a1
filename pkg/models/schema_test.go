package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessageEnvelope(t *testing.T) {
	valid := NewMessageEnvelopeBuilder().
		WithID("id-1").
		WithKind(KindCommand).
		WithSource("test").
		Build()

	tests := []struct {
		name    string
		msg     *MessageEnvelope
		wantErr string
	}{
		{name: "valid", msg: valid},
		{name: "nil", msg: nil, wantErr: "envelope"},
		{name: "missing id", msg: &MessageEnvelope{Kind: KindCommand, Payload: map[string]interface{}{}}, wantErr: "id"},
		{name: "missing kind", msg: &MessageEnvelope{ID: "x", Payload: map[string]interface{}{}}, wantErr: "kind"},
		{name: "nil payload", msg: &MessageEnvelope{ID: "x", Kind: KindCommand}, wantErr: "payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessageEnvelope(tt.msg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantErr, ve.Field)
		})
	}
}

func TestPayloadString(t *testing.T) {
	msg := &MessageEnvelope{}
	assert.Equal(t, "", msg.PayloadString("destination"))

	msg.SetPayloadField("destination", "1001")
	msg.SetPayloadField("count", 3)

	assert.Equal(t, "1001", msg.PayloadString("destination"))
	assert.Equal(t, "", msg.PayloadString("count"))
	assert.False(t, valid(msg))
}

func valid(msg *MessageEnvelope) bool {
	return ValidateMessageEnvelope(msg) == nil
}
