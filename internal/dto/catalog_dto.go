package dto

// TopicResponse describes one catalog topic.
type TopicResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	ModuleCount int     `json:"module_count"`
}

// ModuleResponse is one learning module with its outcome identifiers.
type ModuleResponse struct {
	ID       string   `json:"id"`
	Outcomes []string `json:"outcomes"`
}

// TopicModulesResponse is the generated structure beneath a topic.
type TopicModulesResponse struct {
	TopicID        string           `json:"topic_id"`
	CatalogVersion string           `json:"catalog_version"`
	Modules        []ModuleResponse `json:"modules"`
}
