package models

// Credential authorizes writes to one CMS space.
type Credential struct {
	AccessToken string `json:"accessToken"`
	SpaceID     string `json:"spaceId"`
}

// Valid reports whether both halves of the credential are present.
func (c Credential) Valid() bool {
	return c.AccessToken != "" && c.SpaceID != ""
}
