// internal/status/constants.go
package status

// Node status layout constants.
// These values define the protocol and MUST NOT be configurable.

// DataTypeNodeStatus is the data type id of the heartbeat message.
const DataTypeNodeStatus uint16 = 341

// ---- PAYLOAD GEOMETRY ----

// TailPayloadSize is the heartbeat size on the tail-byte profile.
const TailPayloadSize = 7

// InlinePayloadSize is the heartbeat size on the inline profile.
const InlinePayloadSize = 6

// InlineUptimeMask keeps the 28 uptime bits that share a word with health.
const InlineUptimeMask uint32 = 0x0FFFFFFF

// ---- LAST ERROR CODES ----

// ErrorCodeNone means the last measurement publish succeeded.
const ErrorCodeNone uint16 = 0

// ErrorCodeCompute means the measurement source failed.
const ErrorCodeCompute uint16 = 1

// ErrorCodeEncode means the frame encoder rejected the transfer.
const ErrorCodeEncode uint16 = 2

// ErrorCodeTransport means the transport failed to send.
const ErrorCodeTransport uint16 = 3
