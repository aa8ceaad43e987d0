package services

import (
	"errors"
	"slices"
	"time"

	"teamhub/model"
)

var (
	ErrLastAdmin     = errors.New("a team must keep at least one admin")
	ErrNotTeamMember = errors.New("user is not a member of this team")
	ErrNotTeamAdmin  = errors.New("user is not an admin of this team")
	ErrAlreadyMember = errors.New("user is already a member of this team")
	ErrAlreadyAdmin  = errors.New("user is already an admin of this team")
	ErrInvalidRole   = errors.New("role must be admin or member")
)

// NewTeam returns a team whose creator is its sole admin and member.
func NewTeam(teamID, name, description, creatorID string, now time.Time) *model.Team {
	return &model.Team{
		TeamID:      teamID,
		Name:        name,
		Description: description,
		Members:     []string{creatorID},
		Admins:      []string{creatorID},
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func without(ids []string, userID string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == userID })
}

func withUser(ids []string, userID string) []string {
	if slices.Contains(ids, userID) {
		return ids
	}
	return append(ids, userID)
}

func AddMember(team *model.Team, userID string) error {
	if team.HasUser(userID) {
		return ErrAlreadyMember
	}
	team.Members = append(team.Members, userID)
	return nil
}

// RemoveMember drops userID from both lists. The last admin cannot be removed.
func RemoveMember(team *model.Team, userID string) error {
	if !team.HasUser(userID) {
		return ErrNotTeamMember
	}
	if team.IsAdmin(userID) && len(team.Admins) == 1 {
		return ErrLastAdmin
	}
	team.Members = without(team.Members, userID)
	team.Admins = without(team.Admins, userID)
	return nil
}

// Promote moves userID from the member list to the admin list.
func Promote(team *model.Team, userID string) error {
	if !team.HasUser(userID) {
		return ErrNotTeamMember
	}
	if team.IsAdmin(userID) {
		return ErrAlreadyAdmin
	}
	team.Members = without(team.Members, userID)
	team.Admins = withUser(team.Admins, userID)
	return nil
}

// Demote moves userID back to the member list unless it is the last admin.
func Demote(team *model.Team, userID string) error {
	if !team.IsAdmin(userID) {
		if team.HasUser(userID) {
			return ErrNotTeamAdmin
		}
		return ErrNotTeamMember
	}
	if len(team.Admins) == 1 {
		return ErrLastAdmin
	}
	team.Admins = without(team.Admins, userID)
	team.Members = withUser(team.Members, userID)
	return nil
}

func SetRole(team *model.Team, userID, role string) error {
	switch role {
	case model.TeamRoleAdmin:
		return Promote(team, userID)
	case model.TeamRoleMember:
		return Demote(team, userID)
	default:
		return ErrInvalidRole
	}
}

func RoleOf(team *model.Team, userID string) string {
	if team.IsAdmin(userID) {
		return model.TeamRoleAdmin
	}
	return model.TeamRoleMember
}
