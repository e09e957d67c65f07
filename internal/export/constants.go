// internal/export/constants.go
package export

// Status mirror block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerNode is the fixed number of registers per mirrored node.
const SlotsPerNode = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the health wire code of the active profile.
const SlotHealthCode = 0

// SlotMode holds the operating mode.
const SlotMode = 1

// SlotUptimeHi and SlotUptimeLo hold uptime seconds, high word first.
const SlotUptimeHi = 2
const SlotUptimeLo = 3

// SlotVendorStatus holds the vendor-specific status code.
const SlotVendorStatus = 4

// SlotLastErrorCode holds the last measurement publish error code.
const SlotLastErrorCode = 5

// SlotNodeID holds the bus node id.
const SlotNodeID = 6

// ---- RESERVED RANGE ----

// Slots 7–10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- NODE NAME ----

// SlotNodeNameStart is the first slot used for the node name.
const SlotNodeNameStart = 11

// SlotNodeNameSlots is the number of slots reserved for the node name.
const SlotNodeNameSlots = 8

// SlotNodeNameEnd is the last slot used for the node name (inclusive).
const SlotNodeNameEnd = SlotNodeNameStart + SlotNodeNameSlots - 1

// ---- LIMITS ----

// NodeNameMaxChars is the maximum number of ASCII characters stored for the node name.
const NodeNameMaxChars = 16
