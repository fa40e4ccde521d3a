package services

import (
	"context"

	"pollstation/contexts/polling-station/kiosk-session/ports"
	castapplication "pollstation/contexts/polling-station/vote-casting/application"
	votecastentities "pollstation/contexts/polling-station/vote-casting/domain/entities"
)

// CasterAdapter bridges the session's CastOrder to the vote-casting service
// command. The voter-access and ballot-issuance services satisfy the session
// ports directly and need no adapter.
type CasterAdapter struct {
	Service *castapplication.Service
}

func (a CasterAdapter) Cast(ctx context.Context, order ports.CastOrder) (votecastentities.VoteReceipt, error) {
	return a.Service.Cast(ctx, castapplication.CastCommand{
		VoterID:     order.VoterID,
		ElectionID:  order.ElectionID,
		CandidateID: order.CandidateID,
		District:    order.District,
	})
}
