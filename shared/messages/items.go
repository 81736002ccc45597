package messages

// UseItemRequest asks the server to apply an owned item to a target.
// TargetType follows items.TargetKind; TargetID is a player id, an enemy lane
// or an instance id depending on the type.
type UseItemRequest struct {
	InstanceID uint64
	TargetType int
	TargetID   string
}

// TeleportItemRequest passes an owned item to the neighbouring player.
// Direction is +1 (right) or -1 (left).
type TeleportItemRequest struct {
	InstanceID uint64
	Direction  int
}

// SpawnItemVisual tells the owning client to show a pooled item.
type SpawnItemVisual struct {
	InstanceID   uint64
	DefinitionID int
	Kind         int
	Element      int
	Charges      int
	Sprite       string
	StatText     string
	X, Y         float64
	LaunchX      float64
	LaunchY      float64
}

// ReleaseItemVisual returns an item visual to the client's pool.
type ReleaseItemVisual struct {
	InstanceID uint64
}

// ItemStateChanged updates a visual whose instance state changed in place
// (staff charge or element, combine bonus).
type ItemStateChanged struct {
	InstanceID  uint64
	Charges     int
	Element     int
	BonusDamage int
	Multiplier  float64
	Sprite      string
	StatText    string
}
