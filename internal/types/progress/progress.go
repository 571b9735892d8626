package progress

// Status values the progress endpoints use. "admin_readonly" is not an
// error: it means the caller is a view-only observer and the returned Done
// value is the authoritative one.
const (
	StatusSuccess       = "success"
	StatusAdminReadOnly = "admin_readonly"
	StatusError         = "error"
)

// UpdateResponse is returned by both the task and subtask progress POST
// endpoints. The service reuses the podzadanie_id field for task updates.
type UpdateResponse struct {
	Status    string  `json:"status"`
	SubtaskID int     `json:"podzadanie_id"`
	Done      bool    `json:"wykonane"`
	Message   *string `json:"message,omitempty"`
}

type TaskStateResponse struct {
	Status string `json:"status"`
	TaskID int    `json:"zadanie_id"`
	Done   bool   `json:"wykonane"`
}

type SubtaskStateResponse struct {
	Status    string `json:"status"`
	SubtaskID int    `json:"podzadanie_id"`
	Done      bool   `json:"wykonane"`
}

// HistoryPoint is one sparse (date, percent) sample. The service emits a
// point only for days on which a value changed. Dates arrive either as
// "2025-12-20" or "2025-12-20T00:00:00".
type HistoryPoint struct {
	Date    string `json:"data"`
	Percent int    `json:"procent"`
}

// ParticipantHistory is one participant's sparse samples for a single task.
type ParticipantHistory struct {
	Username string         `json:"nazwa_uzytkownika"`
	Points   []HistoryPoint `json:"punkty"`
}

type HistoryResponse struct {
	Status  string               `json:"status"`
	History []ParticipantHistory `json:"historia"`
}
