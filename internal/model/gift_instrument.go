package model

import "time"

// Gift instrument value modes stored in gift_instruments.value_mode.
// FIXED instruments carry a stored value in cents; PERCENTAGE
// instruments carry a discount percentage in whole points (0..100).
const (
	ValueModeFixed      = "FIXED"
	ValueModePercentage = "PERCENTAGE"
)

// Gift instrument lifecycle status values stored in
// gift_instruments.status.  EXPIRED additionally exists as a read-time
// projection: an instrument whose expiry has passed is *shown* as
// expired without the stored status being rewritten.
const (
	InstrumentStatusActive    = "ACTIVE"
	InstrumentStatusInactive  = "INACTIVE"
	InstrumentStatusExpired   = "EXPIRED"
	InstrumentStatusRedeemed  = "REDEEMED"
	InstrumentStatusCancelled = "CANCELLED"
	InstrumentStatusDeleted   = "DELETED"
)

// GiftInstrument is a stored-value or percentage-discount credential
// issued by the venue and redeemable against bookings and purchases.
// It corresponds to a row in the `gift_instruments` table.
//
// The unit of InitialValue and Balance depends on ValueMode: cents for
// FIXED, whole percentage points for PERCENTAGE.  Invariants enforced
// on every create and edit: 0 <= Balance <= InitialValue (FIXED),
// 0 <= Balance <= 100 (PERCENTAGE), MaxUsage >= 1.
//
// Fields:
//  ID           – primary key identifier.
//  Code         – generated redemption code, unique across instruments.
//  ValueMode    – FIXED or PERCENTAGE.
//  InitialValue – issued value (cents or percent, per ValueMode).
//  Balance      – remaining value (same unit as InitialValue).
//  MaxUsage     – maximum number of redemptions (>= 1).
//  Description  – optional free-text description.
//  Status       – lifecycle status as persisted.
//  ExpiresAt    – optional expiry; past-expiry instruments are shown
//                 as EXPIRED without a persisted transition.
//  CreatedBy    – staff user who issued the instrument.
//  Deleted      – soft-delete flag; deleted instruments are excluded
//                 from every listing regardless of Status.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last modification timestamp.
type GiftInstrument struct {
	ID           uint64     // gift_instruments.id
	Code         string     // gift_instruments.code (unique)
	ValueMode    string     // gift_instruments.value_mode
	InitialValue uint32     // gift_instruments.initial_value
	Balance      uint32     // gift_instruments.balance
	MaxUsage     uint32     // gift_instruments.max_usage
	Description  *string    // gift_instruments.description (nullable)
	Status       string     // gift_instruments.status
	ExpiresAt    *time.Time // gift_instruments.expires_at (nullable)
	CreatedBy    uint64     // gift_instruments.created_by
	Deleted      bool       // gift_instruments.deleted
	CreatedAt    time.Time  // gift_instruments.created_at
	UpdatedAt    time.Time  // gift_instruments.updated_at
}
