// internal/status/constants.go
package status

// Camera Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerCamera is the fixed number of logical slots per camera.
const SlotsPerCamera = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the camera connectivity state.
const SlotHealthCode = 0

// SlotVisibleTags holds the number of known tags seen in the last cycle.
const SlotVisibleTags = 1

// SlotAccepted holds the number of accepted pose observations in the last cycle.
const SlotAccepted = 2

// SlotRejected holds the number of rejected pose observations in the last cycle.
const SlotRejected = 3

// SlotCyclesDisconnected holds how many consecutive cycles the camera has been disconnected.
const SlotCyclesDisconnected = 4

// ---- RESERVED RANGE ----

// Slots 5-10 are reserved for future use.
const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- CAMERA NAME ----

// SlotNameStart is the first slot used for the camera name.
// The name is always placed at the END of the status block.
const SlotNameStart = 11

// SlotNameSlots is the number of slots reserved for the camera name.
const SlotNameSlots = 8

// SlotNameEnd is the last slot used for the camera name (inclusive).
const SlotNameEnd = SlotNameStart + SlotNameSlots - 1

// ---- LIMITS ----

// NameMaxChars is the maximum number of ASCII characters stored for the name.
const NameMaxChars = 16

// CounterMax is where counters saturate.
const CounterMax = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents a boot state before the first cycle.
const HealthUnknown uint16 = 0

// HealthConnected represents a camera that reported in the last cycle.
const HealthConnected uint16 = 1

// HealthDisconnected represents a camera with an active disconnected alert.
const HealthDisconnected uint16 = 2
