package model

import "github.com/golang-jwt/jwt/v5"

// Identity is the authenticated user as reported by the auth collaborator.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (i Identity) Author() Author {
	return Author{
		ID:     i.ID,
		Name:   i.DisplayName,
		Avatar: i.AvatarURL,
	}
}

func (i Identity) Creator() Creator {
	return Creator{
		Name:   i.DisplayName,
		Avatar: i.AvatarURL,
	}
}

// UserRecord is the users/{id} entry kept in the feed.
type UserRecord struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type SessionClaims struct {
	jwt.RegisteredClaims

	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ProfileUpdated is published by the user service when a nickname or avatar changes.
type ProfileUpdated struct {
	UserID    string `json:"user_id"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}
