package challenge

// Subtask is a weighted sub-unit of a daily task. Required is display-only;
// it does not change how completion is aggregated.
type Subtask struct {
	ID       int     `json:"id"`
	Name     string  `json:"nazwa"`
	Required bool    `json:"wymagane"`
	Weight   float64 `json:"waga"`
}

// DailyTask is completable directly when it has no subtasks; with subtasks
// its completion is always derived from them.
type DailyTask struct {
	ID          int       `json:"id"`
	Name        string    `json:"nazwa"`
	Description *string   `json:"opis,omitempty"`
	Subtasks    []Subtask `json:"podzadania"`
}

type Participant struct {
	ID       int    `json:"id"`
	Username string `json:"nazwa_uzytkownika"`
	Accepted bool   `json:"zaakceptowane"`
}

// Challenge is the full WyzwanieFullOut payload. Start and end dates are kept
// as the raw strings the service sends; it mixes date-only and datetime
// representations, so all comparisons go through progress.NormalizeDate.
type Challenge struct {
	ID           int           `json:"id"`
	Name         string        `json:"nazwa"`
	Description  *string       `json:"opis,omitempty"`
	TimeBound    bool          `json:"czasowe"`
	StartDate    *string       `json:"data_start,omitempty"`
	EndDate      *string       `json:"data_koniec,omitempty"`
	AuthorID     int           `json:"autor_id"`
	Participants []Participant `json:"uczestnicy"`
	DailyTasks   []DailyTask   `json:"zadania_dzienne"`
}

// ActiveParticipants returns the participants whose invitation has been
// accepted; only those appear in charts and permission checks.
func (c *Challenge) ActiveParticipants() []Participant {
	active := make([]Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p.Accepted {
			active = append(active, p)
		}
	}
	return active
}

// TaskForSubtask finds the daily task owning the given subtask, or nil.
func (c *Challenge) TaskForSubtask(subtaskID int) *DailyTask {
	for i := range c.DailyTasks {
		for _, s := range c.DailyTasks[i].Subtasks {
			if s.ID == subtaskID {
				return &c.DailyTasks[i]
			}
		}
	}
	return nil
}

type CreateSubtask struct {
	Name     string  `json:"nazwa"`
	Required bool    `json:"wymagane"`
	Weight   float64 `json:"waga"`
}

type CreateDailyTask struct {
	Name        string          `json:"nazwa"`
	Description *string         `json:"opis,omitempty"`
	Subtasks    []CreateSubtask `json:"podzadania"`
}

type CreateRequest struct {
	Name           string            `json:"nazwa"`
	Description    *string           `json:"opis,omitempty"`
	TimeBound      bool              `json:"czasowe"`
	StartDate      *string           `json:"data_start,omitempty"`
	EndDate        *string           `json:"data_koniec,omitempty"`
	ParticipantIDs []int             `json:"uczestnicy_ids"`
	DailyTasks     []CreateDailyTask `json:"zadania_dzienne"`
}

type ListResponse struct {
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Data    []Challenge `json:"data"`
}

type DetailResponse struct {
	Status  string     `json:"status"`
	Data    *Challenge `json:"data,omitempty"`
	Message *string    `json:"message,omitempty"`
}

type DeleteResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ChallengeID *int   `json:"wyzwanie_id,omitempty"`
}

// ReceivedInvitation mirrors OdebraneZaproszenieWyzwanieOut.
type ReceivedInvitation struct {
	MembershipID int     `json:"uczestnictwo_id"`
	ChallengeID  int     `json:"wyzwanie_id"`
	Name         string  `json:"nazwa"`
	Description  *string `json:"opis,omitempty"`
	AuthorID     int     `json:"autor_id"`
	AuthorName   string  `json:"autor_nazwa"`
}

// SentInvitation mirrors WyslaneZaproszenieWyzwanieOut.
type SentInvitation struct {
	MembershipID  int    `json:"uczestnictwo_id"`
	ChallengeID   int    `json:"wyzwanie_id"`
	ChallengeName string `json:"wyzwanie_nazwa"`
	RecipientID   int    `json:"odbiorca_id"`
	RecipientName string `json:"odbiorca_nazwa"`
}

type ReceivedInvitationsResponse struct {
	Message string               `json:"message"`
	Status  string               `json:"status"`
	Data    []ReceivedInvitation `json:"data"`
}

type SentInvitationsResponse struct {
	Message string           `json:"message"`
	Status  string           `json:"status"`
	Data    []SentInvitation `json:"data"`
}

type InvitationActionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
