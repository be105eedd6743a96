package credit

import (
	"strconv"

	"giglend/core/types"
)

const EventTypeProfileUpdated = "credit.profile_updated"

// NewProfileUpdatedEvent returns the canonical event payload emitted when a
// credit profile is created or replaced.
func NewProfileUpdatedEvent(p *Profile) *types.Event {
	if p == nil {
		return &types.Event{Type: EventTypeProfileUpdated, Attributes: map[string]string{}}
	}
	return &types.Event{
		Type: EventTypeProfileUpdated,
		Attributes: map[string]string{
			"user":        p.User.String(),
			"creditScore": strconv.FormatUint(uint64(p.CreditScore), 10),
			"platforms":   strconv.Itoa(len(p.GigPlatforms)),
			"lastUpdated": strconv.FormatUint(p.LastUpdated, 10),
		},
	}
}
