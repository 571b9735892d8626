package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"betyaClient/internal/types/challenge"
	"betyaClient/internal/types/friendship"
	progresstypes "betyaClient/internal/types/progress"
	"betyaClient/internal/types/user"
)

var testSigningKey = []byte("test-secret-key-for-testing-only")

// GenerateToken builds a signed JWT carrying the uzytkownik_id claim the way
// the real service issues it. The client never verifies the signature, so
// any HS256 key works for tests.
func GenerateToken(t *testing.T, userID int) string {
	t.Helper()

	claims := jwt.MapClaims{
		"uzytkownik_id": userID,
		"exp":           time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// FakeAPI is an in-process stand-in for the Betya service implementing the
// endpoints the client consumes. State is mutable so tests can script
// scenarios (expired sessions, read-only observers, failing updates).
type FakeAPI struct {
	Server *httptest.Server

	mu sync.Mutex

	// Scenario switches.
	ExpireSessions bool // every authenticated call answers 403
	AdminReadOnly  bool // progress updates answer status=admin_readonly
	RejectUpdates  bool // progress updates answer 400 with a detail message
	FailFriends    bool // the friend list answers 500
	DenyDeletes    bool // challenge deletion answers the admin-guard message

	Users         map[string]user.User // by username, for login
	Friends       []friendship.Friend
	PendingSent   []friendship.PendingRequest
	PendingRecv   []friendship.PendingRequest
	Challenges    map[int]challenge.Challenge
	InvitationsIn []challenge.ReceivedInvitation

	SubtaskState map[int]bool
	TaskState    map[int]bool
	History      map[int][]progresstypes.ParticipantHistory
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Users:        map[string]user.User{},
		Challenges:   map[int]challenge.Challenge{},
		SubtaskState: map[int]bool{},
		TaskState:    map[int]bool{},
		History:      map[int][]progresstypes.ParticipantHistory{},
	}

	r := mux.NewRouter()

	r.HandleFunc("/auth/logowanie", f.login).Methods("POST")
	r.HandleFunc("/register/rejestracja", f.register).Methods("POST")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(f.authMiddleware)

	authed.HandleFunc("/znajomi/wszyscy", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		failing := f.FailFriends
		f.mu.Unlock()
		if failing {
			f.respondError(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		f.respond(w, f.Friends)
	}).Methods("GET")
	authed.HandleFunc("/znajomi/pending/wyslane", func(w http.ResponseWriter, r *http.Request) {
		f.respond(w, f.PendingSent)
	}).Methods("GET")
	authed.HandleFunc("/znajomi/pending/odebrane", func(w http.ResponseWriter, r *http.Request) {
		f.respond(w, f.PendingRecv)
	}).Methods("GET")
	authed.HandleFunc("/znajomi/statystyki", func(w http.ResponseWriter, r *http.Request) {
		f.respond(w, friendship.Stats{FriendCount: len(f.Friends), PendingCount: len(f.PendingRecv)})
	}).Methods("GET")
	authed.HandleFunc("/znajomi/szukaj", f.searchUsers).Methods("GET")
	authed.HandleFunc("/znajomi/dodaj_znajomego", f.addFriend).Methods("POST")
	authed.HandleFunc("/znajomi/{id:[0-9]+}/{action}", f.resolveFriendRequest).Methods("POST")

	authed.HandleFunc("/wyzwania/", f.listChallenges).Methods("GET")
	authed.HandleFunc("/wyzwania/dodaj", f.createChallenge).Methods("POST")
	authed.HandleFunc("/wyzwania/zaproszenia/odebrane", func(w http.ResponseWriter, r *http.Request) {
		f.respond(w, challenge.ReceivedInvitationsResponse{Status: "success", Data: f.InvitationsIn})
	}).Methods("GET")
	authed.HandleFunc("/wyzwania/zaproszenia/wyslane", func(w http.ResponseWriter, r *http.Request) {
		f.respond(w, challenge.SentInvitationsResponse{Status: "success", Data: nil})
	}).Methods("GET")
	authed.HandleFunc("/wyzwania/zaproszenia/{id:[0-9]+}/{action}", f.resolveChallengeInvitation).Methods("POST")
	authed.HandleFunc("/wyzwania/{id:[0-9]+}", f.getChallenge).Methods("GET")
	authed.HandleFunc("/wyzwania/{id:[0-9]+}", f.deleteChallenge).Methods("DELETE")

	authed.HandleFunc("/wyzwania/progres/podzadania/{id:[0-9]+}", f.getSubtaskState).Methods("GET")
	authed.HandleFunc("/wyzwania/progres/podzadania/{id:[0-9]+}", f.setSubtaskState).Methods("POST")
	authed.HandleFunc("/wyzwania/progres/dzienne/historia/wszystkie/{id:[0-9]+}", f.getHistory).Methods("GET")
	authed.HandleFunc("/wyzwania/progres/dzienne/{id:[0-9]+}", f.getTaskState).Methods("GET")
	authed.HandleFunc("/wyzwania/progres/dzienne/{id:[0-9]+}", f.setTaskState).Methods("POST")

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

func (f *FakeAPI) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		expired := f.ExpireSessions
		f.mu.Unlock()

		auth := r.Header.Get("Authorization")
		if expired || !strings.HasPrefix(auth, "Bearer ") {
			f.respondError(w, http.StatusForbidden, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req user.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	account, ok := f.Users[req.Username]
	f.mu.Unlock()
	if !ok {
		f.respondError(w, http.StatusUnauthorized, "wrong username or password")
		return
	}

	claims := jwt.MapClaims{"uzytkownik_id": account.ID}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	f.respond(w, user.AuthResponse{AccessToken: token, TokenType: "bearer", User: account})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	account := user.User{ID: len(f.Users) + 1, Username: req.Username, Email: req.Email}
	f.Users[req.Username] = account
	f.mu.Unlock()

	claims := jwt.MapClaims{"uzytkownik_id": account.ID}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	f.respond(w, user.AuthResponse{AccessToken: token, TokenType: "bearer", User: account})
}

func (f *FakeAPI) searchUsers(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))
	var found []user.User
	f.mu.Lock()
	for _, u := range f.Users {
		if strings.Contains(strings.ToLower(u.Username), query) {
			found = append(found, u)
		}
	}
	f.mu.Unlock()
	f.respond(w, found)
}

func (f *FakeAPI) addFriend(w http.ResponseWriter, r *http.Request) {
	var req friendship.AddFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	f.respond(w, friendship.Invitation{
		ID:       100,
		FriendID: req.FriendID,
		Status:   friendship.StatusPending,
	})
}

func (f *FakeAPI) resolveFriendRequest(w http.ResponseWriter, r *http.Request) {
	relationID, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, pending := range f.PendingRecv {
		if pending.RelationID == relationID {
			if mux.Vars(r)["action"] == "akceptuj" {
				f.Friends = append(f.Friends, pending.User)
			}
			f.PendingRecv = append(f.PendingRecv[:i], f.PendingRecv[i+1:]...)
			f.respond(w, friendship.Invitation{ID: relationID, Status: friendship.StatusAccepted})
			return
		}
	}
	f.respondError(w, http.StatusNotFound, "request not found")
}

func (f *FakeAPI) listChallenges(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	var all []challenge.Challenge
	for _, ch := range f.Challenges {
		all = append(all, ch)
	}
	f.mu.Unlock()
	f.respond(w, challenge.ListResponse{Status: "success", Data: all})
}

func (f *FakeAPI) createChallenge(w http.ResponseWriter, r *http.Request) {
	var req challenge.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.respondError(w, http.StatusBadRequest, "invalid body")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ch := challenge.Challenge{
		ID:          len(f.Challenges) + 1,
		Name:        req.Name,
		Description: req.Description,
		TimeBound:   req.TimeBound,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	for i, task := range req.DailyTasks {
		dt := challenge.DailyTask{
			ID:          ch.ID*100 + i,
			Name:        task.Name,
			Description: task.Description,
		}
		for j, st := range task.Subtasks {
			dt.Subtasks = append(dt.Subtasks, challenge.Subtask{
				ID:       dt.ID*10 + j,
				Name:     st.Name,
				Required: st.Required,
				Weight:   st.Weight,
			})
		}
		ch.DailyTasks = append(ch.DailyTasks, dt)
	}
	f.Challenges[ch.ID] = ch
	f.respond(w, ch)
}

func (f *FakeAPI) getChallenge(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	ch, ok := f.Challenges[id]
	f.mu.Unlock()
	if !ok {
		message := "challenge not found"
		f.respond(w, challenge.DetailResponse{Status: "error", Message: &message})
		return
	}
	f.respond(w, challenge.DetailResponse{Status: "success", Data: &ch})
}

func (f *FakeAPI) deleteChallenge(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DenyDeletes {
		f.respond(w, challenge.DeleteResponse{
			Status:  "error",
			Message: "Only an administrator can delete a challenge.",
		})
		return
	}
	delete(f.Challenges, id)
	f.respond(w, challenge.DeleteResponse{Status: "success", Message: "deleted", ChallengeID: &id})
}

func (f *FakeAPI) resolveChallengeInvitation(w http.ResponseWriter, r *http.Request) {
	membershipID, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inv := range f.InvitationsIn {
		if inv.MembershipID == membershipID {
			f.InvitationsIn = append(f.InvitationsIn[:i], f.InvitationsIn[i+1:]...)
			f.respond(w, challenge.InvitationActionResponse{Status: "success", Message: "done"})
			return
		}
	}
	f.respondError(w, http.StatusNotFound, "invitation not found")
}

func (f *FakeAPI) getSubtaskState(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	done := f.SubtaskState[id]
	f.mu.Unlock()
	f.respond(w, progresstypes.SubtaskStateResponse{Status: "success", SubtaskID: id, Done: done})
}

func (f *FakeAPI) getTaskState(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	done := f.TaskState[id]
	f.mu.Unlock()
	f.respond(w, progresstypes.TaskStateResponse{Status: "success", TaskID: id, Done: done})
}

func (f *FakeAPI) setSubtaskState(w http.ResponseWriter, r *http.Request) {
	f.setState(w, r, f.SubtaskState)
}

func (f *FakeAPI) setTaskState(w http.ResponseWriter, r *http.Request) {
	f.setState(w, r, f.TaskState)
}

func (f *FakeAPI) setState(w http.ResponseWriter, r *http.Request, state map[int]bool) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	done, err := strconv.ParseBool(r.URL.Query().Get("wykonane"))
	if err != nil {
		f.respondError(w, http.StatusBadRequest, "wykonane must be a bool")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.AdminReadOnly {
		message := "You are an administrator - view only."
		f.respond(w, progresstypes.UpdateResponse{
			Status:    progresstypes.StatusAdminReadOnly,
			SubtaskID: id,
			Done:      state[id],
			Message:   &message,
		})
		return
	}
	if f.RejectUpdates {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"detail": {"status": "error", "message": "User is not a participant of this challenge"}}`)
		return
	}

	state[id] = done
	f.respond(w, progresstypes.UpdateResponse{
		Status:    progresstypes.StatusSuccess,
		SubtaskID: id,
		Done:      done,
	})
}

func (f *FakeAPI) getHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f.mu.Lock()
	history := f.History[id]
	f.mu.Unlock()
	f.respond(w, progresstypes.HistoryResponse{Status: "success", History: history})
}

func (f *FakeAPI) respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (f *FakeAPI) respondError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
