package team

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teamhub/model"
	"teamhub/store"
	"teamhub/testkit"
)

type fixture struct {
	h      *testkit.Harness
	router *gin.Engine
	admin  *model.User
	member *model.User
	other  *model.User
	team   *model.Team
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := testkit.New(t, nil)
	admin := h.CreateUser(t, "Admin", "admin@example.com", "secret1", true)
	member := h.CreateUser(t, "Member", "member@example.com", "secret1", true)
	other := h.CreateUser(t, "Other", "other@example.com", "secret1", true)
	return &fixture{
		h:      h,
		router: h.Router(t, TeamController),
		admin:  admin,
		member: member,
		other:  other,
		team:   h.CreateTeam(t, "Core", admin, member),
	}
}

func (f *fixture) stored(t *testing.T) *model.Team {
	t.Helper()
	team, err := f.h.Store.GetTeam(context.Background(), f.team.TeamID)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	return team
}

func (f *fixture) path(suffix string) string {
	return "/api/teams/" + f.team.TeamID + suffix
}

func TestCreateAndListTeams(t *testing.T) {
	f := newFixture(t)
	token := f.h.Token(t, f.other)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, "/api/teams", token, gin.H{"name": "  "}), http.StatusBadRequest)

	rec := testkit.Do(t, f.router, http.MethodPost, "/api/teams", token, gin.H{"name": "Design", "description": "UI work"})
	testkit.Expect(t, rec, http.StatusCreated)
	var created struct {
		Team struct {
			TeamID  string   `json:"teamId"`
			Admins  []string `json:"admins"`
			Members []string `json:"members"`
			Role    string   `json:"role"`
		} `json:"team"`
	}
	testkit.Decode(t, rec, &created)
	if created.Team.Role != model.TeamRoleAdmin ||
		!slices.Equal(created.Team.Admins, []string{f.other.UserID}) ||
		!slices.Equal(created.Team.Members, []string{f.other.UserID}) {
		t.Fatalf("created team = %+v", created.Team)
	}

	rec = testkit.Do(t, f.router, http.MethodGet, "/api/teams", token, nil)
	testkit.Expect(t, rec, http.StatusOK)
	var listed struct {
		Teams []struct {
			TeamID string `json:"teamId"`
		} `json:"teams"`
	}
	testkit.Decode(t, rec, &listed)
	if len(listed.Teams) != 1 || listed.Teams[0].TeamID != created.Team.TeamID {
		t.Fatalf("teams = %+v", listed.Teams)
	}
}

func TestNonAdminCannotManageMembers(t *testing.T) {
	f := newFixture(t)
	token := f.h.Token(t, f.member)

	rec := testkit.Do(t, f.router, http.MethodPost, f.path("/members"), token, gin.H{"email": f.other.Email})
	testkit.Expect(t, rec, http.StatusForbidden)

	rec = testkit.Do(t, f.router, http.MethodDelete, f.path("/members/"+f.admin.UserID), token, nil)
	testkit.Expect(t, rec, http.StatusForbidden)

	rec = testkit.Do(t, f.router, http.MethodPut, f.path("/members/"+f.member.UserID+"/role"), token, gin.H{"role": "admin"})
	testkit.Expect(t, rec, http.StatusForbidden)

	if team := f.stored(t); team.HasUser(f.other.UserID) || !team.IsAdmin(f.admin.UserID) {
		t.Fatalf("team changed by non-admin: %+v", team)
	}
}

func TestStrangerCannotReadTeam(t *testing.T) {
	f := newFixture(t)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodGet, f.path(""), f.h.Token(t, f.other), nil), http.StatusForbidden)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodGet, "/api/teams/missing", f.h.Token(t, f.other), nil), http.StatusNotFound)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodGet, f.path(""), "", nil), http.StatusUnauthorized)
}

func TestAddMember(t *testing.T) {
	f := newFixture(t)
	token := f.h.Token(t, f.admin)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/members"), token, gin.H{}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/members"), token, gin.H{"email": "ghost@example.com"}), http.StatusNotFound)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/members"), token, gin.H{"userId": f.member.UserID}), http.StatusBadRequest)

	rec := testkit.Do(t, f.router, http.MethodPost, f.path("/members"), token, gin.H{"email": "OTHER@example.com"})
	testkit.Expect(t, rec, http.StatusOK)
	if !f.stored(t).HasUser(f.other.UserID) {
		t.Fatal("member not added")
	}

	rec = testkit.Do(t, f.router, http.MethodGet, f.path("/members"), token, nil)
	testkit.Expect(t, rec, http.StatusOK)
	var got struct {
		Members []struct {
			UserID string `json:"userId"`
			Email  string `json:"email"`
			Role   string `json:"role"`
		} `json:"members"`
	}
	testkit.Decode(t, rec, &got)
	if len(got.Members) != 3 || got.Members[0].UserID != f.admin.UserID || got.Members[0].Role != model.TeamRoleAdmin {
		t.Fatalf("members = %+v", got.Members)
	}
}

func TestRoleChanges(t *testing.T) {
	f := newFixture(t)
	token := f.h.Token(t, f.admin)
	role := func(userID, r string) int {
		return testkit.Do(t, f.router, http.MethodPut, f.path("/members/"+userID+"/role"), token, gin.H{"role": r}).Code
	}

	if code := role(f.admin.UserID, model.TeamRoleMember); code != http.StatusForbidden {
		t.Fatalf("demote sole admin = %d, want 403", code)
	}
	if !f.stored(t).IsAdmin(f.admin.UserID) {
		t.Fatal("sole admin was demoted")
	}

	if code := role(f.member.UserID, "owner"); code != http.StatusBadRequest {
		t.Fatalf("invalid role = %d, want 400", code)
	}
	if code := role(f.other.UserID, model.TeamRoleAdmin); code != http.StatusNotFound {
		t.Fatalf("promote stranger = %d, want 404", code)
	}

	if code := role(f.member.UserID, model.TeamRoleAdmin); code != http.StatusOK {
		t.Fatalf("promote member = %d", code)
	}
	team := f.stored(t)
	if !team.IsAdmin(f.member.UserID) || slices.Contains(team.Members, f.member.UserID) {
		t.Fatalf("after promote admins=%v members=%v", team.Admins, team.Members)
	}

	if code := role(f.admin.UserID, model.TeamRoleMember); code != http.StatusOK {
		t.Fatalf("demote admin = %d", code)
	}
	team = f.stored(t)
	if !slices.Equal(team.Admins, []string{f.member.UserID}) {
		t.Fatalf("after demote admins=%v", team.Admins)
	}
}

func TestRemoveMemberAndLeave(t *testing.T) {
	f := newFixture(t)
	adminToken := f.h.Token(t, f.admin)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodDelete, f.path("/members/"+f.admin.UserID), adminToken, nil), http.StatusForbidden)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/leave"), adminToken, nil), http.StatusForbidden)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/leave"), f.h.Token(t, f.member), nil), http.StatusOK)
	if f.stored(t).HasUser(f.member.UserID) {
		t.Fatal("member still in team after leaving")
	}
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodDelete, f.path("/members/"+f.member.UserID), adminToken, nil), http.StatusNotFound)
}

func TestInviteAndJoin(t *testing.T) {
	f := newFixture(t)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, f.path("/invite"), f.h.Token(t, f.member), nil), http.StatusForbidden)

	rec := testkit.Do(t, f.router, http.MethodPost, f.path("/invite"), f.h.Token(t, f.admin), nil)
	testkit.Expect(t, rec, http.StatusCreated)
	var invite struct {
		Token string `json:"token"`
	}
	testkit.Decode(t, rec, &invite)

	otherToken := f.h.Token(t, f.other)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, "/api/teams/join", otherToken, gin.H{"token": "bogus"}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, "/api/teams/join", otherToken, gin.H{"token": invite.Token}), http.StatusOK)
	team := f.stored(t)
	if !team.HasUser(f.other.UserID) || team.IsAdmin(f.other.UserID) {
		t.Fatalf("joined team = %+v", team)
	}
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPost, "/api/teams/join", otherToken, gin.H{"token": invite.Token}), http.StatusBadRequest)
}

func TestExpiredInvite(t *testing.T) {
	f := newFixture(t)
	token, _, err := f.h.Env.Tokens.CreateInviteToken(f.team.TeamID, f.admin.UserID)
	if err != nil {
		t.Fatalf("CreateInviteToken: %v", err)
	}
	f.h.Clock.Advance(8 * 24 * time.Hour)
	rec := testkit.Do(t, f.router, http.MethodPost, "/api/teams/join", f.h.Token(t, f.other), gin.H{"token": token})
	testkit.Expect(t, rec, http.StatusBadRequest)
}

func TestUpdateAndDeleteTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminToken := f.h.Token(t, f.admin)

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPut, f.path(""), f.h.Token(t, f.member), gin.H{"name": "X"}), http.StatusForbidden)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPut, f.path(""), adminToken, gin.H{}), http.StatusBadRequest)
	testkit.Expect(t, testkit.Do(t, f.router, http.MethodPut, f.path(""), adminToken, gin.H{"name": "Platform"}), http.StatusOK)
	if f.stored(t).Name != "Platform" {
		t.Fatal("name not updated")
	}

	if err := f.h.Store.SaveNote(ctx, &model.Note{NoteID: "n1", TeamID: f.team.TeamID}); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if err := f.h.Store.SaveTask(ctx, &model.ProjectTask{TaskID: "k1", TeamID: f.team.TeamID}); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	testkit.Expect(t, testkit.Do(t, f.router, http.MethodDelete, f.path(""), adminToken, nil), http.StatusOK)
	if _, err := f.h.Store.GetTeam(ctx, f.team.TeamID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("team still present: %v", err)
	}
	if notes, _ := f.h.Store.ListNotes(ctx, f.team.TeamID); len(notes) != 0 {
		t.Fatal("notes not cascaded")
	}
	if tasks, _ := f.h.Store.ListTasks(ctx, f.team.TeamID); len(tasks) != 0 {
		t.Fatal("tasks not cascaded")
	}
}
