package progress

import "betyaClient/internal/types/challenge"

// CanEdit reports whether the given user may toggle progress in a challenge:
// the author always can, as can any accepted participant. Pending invitees
// only get a read-only view. This is a UI hint; the service enforces the
// real rule on every mutation.
func CanEdit(ch *challenge.Challenge, active []challenge.Participant, userID int) bool {
	if ch.AuthorID == userID {
		return true
	}
	for _, p := range active {
		if p.ID == userID {
			return true
		}
	}
	return false
}
