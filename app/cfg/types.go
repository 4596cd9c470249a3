package cfg

type Cfg struct {
	// Pipeline configuration
	GroupsDir    string
	TaxonomyPath string
	DBPath       string
	OutputDir    string

	// Classification configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Serve mode configuration
	Serve        bool
	Port         string
	BaseUrl      string
	APIAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
