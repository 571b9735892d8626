package friendship

type Status string

const (
	StatusPending  Status = "oczekujacy"
	StatusAccepted Status = "zaakceptowany"
	StatusBlocked  Status = "zablokowany"
)

// Friend mirrors the ZnajomyOut payload.
type Friend struct {
	ID        int     `json:"id"`
	Username  string  `json:"nazwa_uzytkownika"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"profilowe_url,omitempty"`
}

// PendingRequest is one entry of the pending sent/received lists. The
// relation id is what the accept/reject endpoints key on, not the user id.
type PendingRequest struct {
	RelationID int    `json:"relacja_id"`
	User       Friend `json:"uzytkownik"`
}

// Invitation mirrors the ZaproszenieOut payload returned when a friend
// request is created, accepted or rejected.
type Invitation struct {
	ID         int    `json:"id"`
	UserID     int    `json:"uzytkownik_id"`
	FriendID   int    `json:"znajomy_id"`
	Status     Status `json:"status"`
	InvitedAt  string `json:"data_zaproszenia"`
	AreFriends bool   `json:"sa_znajomymi"`
}

type AddFriendRequest struct {
	FriendID int `json:"znajomy_id"`
}

type Stats struct {
	FriendCount  int `json:"liczba_znajomych"`
	PendingCount int `json:"liczba_oczekujacych_zaproszen"`
}
