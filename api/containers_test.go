package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type linkState uint8

const (
	linkDown linkState = 0
	linkUp   linkState = 1
)

func TestSizedEnum(t *testing.T) {
	t.Run("carries the wire width in the type", func(t *testing.T) {
		assert.Equal(t, 8, SizedEnum[linkState, U8]{}.Bits())
		assert.Equal(t, 16, SizedEnum[linkState, U16]{}.Bits())
		assert.Equal(t, 32, SizedEnum[linkState, U32]{}.Bits())
		assert.Equal(t, 64, SizedEnum[linkState, U64]{}.Bits())
	})

	t.Run("width is independent of the enum's Go representation", func(t *testing.T) {
		// linkState is a uint8, yet the wire can demand four bytes
		e := SizedEnum[linkState, U32]{Value: linkUp}
		assert.Equal(t, 32, e.Bits())
		assert.Equal(t, linkUp, e.Value)
	})

	t.Run("set returns the updated container", func(t *testing.T) {
		e := SizedEnum[linkState, U8]{Value: linkDown}
		assert.Equal(t, linkUp, e.Set(linkUp).Value)
		// the receiver is a value; the original is untouched
		assert.Equal(t, linkDown, e.Value)
	})
}

func TestVariableSizeString(t *testing.T) {
	s := VariableSizeString("local0")
	assert.Equal(t, "local0", s.String())
	assert.Equal(t, 6, s.Len())
}

func TestNameResolverFunc(t *testing.T) {
	r := NameResolverFunc(func(nameAndCrc string) (uint16, error) {
		require.Equal(t, "control_ping_51077d14", nameAndCrc)
		return 17, nil
	})
	id, err := r.ResolveMessageID("control_ping_51077d14")
	require.NoError(t, err)
	assert.Equal(t, uint16(17), id)
}

// pingMessage mirrors the shape of a generated message type.
type pingMessage struct {
	ClientIndex uint32
	Context     uint32
}

func (*pingMessage) MessageNameAndCrc() string { return "control_ping_51077d14" }

func (m *pingMessage) SetContext(context uint32) { m.Context = context }

func (m *pingMessage) SetClientIndex(clientIndex uint32) { m.ClientIndex = clientIndex }

func TestMessageContract(t *testing.T) {
	var m Message = &pingMessage{}
	m.SetContext(42)
	m.SetClientIndex(7)
	assert.Equal(t, "control_ping_51077d14", m.MessageNameAndCrc())
	assert.Equal(t, uint32(42), m.(*pingMessage).Context)
	assert.Equal(t, uint32(7), m.(*pingMessage).ClientIndex)
}
