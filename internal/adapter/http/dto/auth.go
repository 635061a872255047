package dto

type MeResponse struct {
	Sub               string   `json:"sub"`
	PreferredUsername string   `json:"preferred_username"`
	Email             string   `json:"email"`
	Roles             []string `json:"roles"`
}

type ClaimItem struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
