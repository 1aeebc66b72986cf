package service

import (
	"cmp"
	"slices"

	"raffler/models"
)

// RankParticipants orders participants by priority descending, then by join
// time, then by user ID. The input slice is sorted in place and returned.
func RankParticipants(participants []*models.Participant) []*models.Participant {
	slices.SortStableFunc(participants, func(a, b *models.Participant) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		if c := a.JoinedWhen.Compare(b.JoinedWhen); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return participants
}

// SelectWinners returns the first numWinners of a ranked snapshot, or all of it
// when the pool is smaller
func SelectWinners(ranked []*models.Participant, numWinners int) []*models.Participant {
	if numWinners <= 0 {
		return []*models.Participant{}
	}
	if numWinners > len(ranked) {
		numWinners = len(ranked)
	}
	winners := make([]*models.Participant, numWinners)
	copy(winners, ranked[:numWinners])
	return winners
}
