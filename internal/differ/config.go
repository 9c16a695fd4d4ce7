package differ

// DiffConfig controls the structural differ's keyed array comparison.
type DiffConfig struct {
	// IdentityKeys is the ordered list of candidate identity fields scanned
	// on array elements; the first field present wins. Elements carrying
	// none of these fields are invisible to the keyed comparison.
	IdentityKeys []string
}

// DefaultDiffConfig returns the identity fields observed across the game's
// content payloads.
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		IdentityKeys: []string{
			"id",
			"challengeId",
			"groupId",
			"objectiveId",
			"templateId",
			"name",
			"packId",
			"evolutionId",
		},
	}
}
