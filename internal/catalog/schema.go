package catalog

// ProgramSchema is the on-disk JSON form of a program's activity catalog.
type ProgramSchema struct {
	ID         string                      `json:"id"`
	Name       string                      `json:"name"`
	Version    string                      `json:"version"`
	CostModel  string                      `json:"cost_model"`
	Facilities map[string][]CategoryConfig `json:"facilities"`
}

// CategoryConfig is one category and its ordered activity templates.
type CategoryConfig struct {
	Name       string           `json:"name"`
	Activities []ActivityConfig `json:"activities"`
}

type ActivityConfig struct {
	TypeOfActivity string `json:"type_of_activity"`
	Activity       string `json:"activity"`
}
