package dto

type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default"`
}

type SetDefaultProviderRequest struct {
	Provider string `json:"provider"`
}
