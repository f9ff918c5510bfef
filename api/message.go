// Package api defines the contract between generated binding code and the
// transport layer: the Message capability every generated message type
// implements, the name-to-ID resolution capability the transport provides,
// and the wire container types generated fields are declared with.
package api

// Message is implemented by every generated message type. The transport
// layer depends on it for message identification and request/reply
// correlation and on nothing else.
type Message interface {
	// MessageNameAndCrc returns the stable wire identifier of the message
	// in the form "name_crc", e.g. "show_version_51077d14".
	MessageNameAndCrc() string

	// SetContext stores the correlation context into the message, if the
	// message declares a context field. Messages without one ignore it.
	SetContext(context uint32)

	// SetClientIndex stores the client index into the message, if the
	// message declares a client_index field. Messages without one ignore it.
	SetClientIndex(clientIndex uint32)
}

// NameResolver resolves a stable "name_crc" identifier to the numeric
// message ID assigned by the peer at run time.
type NameResolver interface {
	ResolveMessageID(nameAndCrc string) (uint16, error)
}

// NameResolverFunc adapts a plain function to the NameResolver interface.
type NameResolverFunc func(nameAndCrc string) (uint16, error)

// ResolveMessageID calls f.
func (f NameResolverFunc) ResolveMessageID(nameAndCrc string) (uint16, error) {
	return f(nameAndCrc)
}
